package infra

// pdf.go: Monthly timesheet PDF using go-pdf/fpdf.
// A4 portrait with:
//   - Company header and employee block
//   - One row per day: date, weekday, entrada, salida, pausa, previstas, trabajadas
//   - Totals and the difference against the planned hours
//   - Signature boxes for the employee and the company
//
// The output file is saved to storagePath/informe_{nif}_{anio}-{mes}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateInformePDF renders a monthly report and returns the path of the
// written file. storagePath is created if needed; an existing report for the
// same user and month is overwritten.
func GenerateInformePDF(inf *dto.InformeMensualResponse, storagePath string, generado time.Time) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	fileName := fmt.Sprintf("informe_%s_%04d-%02d.pdf", inf.UsuarioNIF, inf.Anio, inf.Mes)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Generado el %s · página %d", generado.Format("02/01/2006 15:04"), pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Impulsa Telecom", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Registro de jornada · %s %d", nombreMes(inf.Mes), inf.Anio)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, tr("Trabajador: "+inf.Nombre), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "NIF: "+inf.UsuarioNIF, "", 1, "R", false, 0, "")
	if inf.Departamento != "" {
		pdf.CellFormat(contentW, 5, tr("Departamento: "+inf.Departamento), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Day table ────────────────────────────────────────────────────────────
	widths := []float64{22, 22, 18, 18, 16, 22, 22}
	notaW := contentW
	for _, w := range widths {
		notaW -= w
	}
	headers := []string{"Fecha", "Día", "Entrada", "Salida", "Pausa", "Previstas", "Trabajadas"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(notaW, 6, "Nota", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range inf.Dias {
		fecha := d.Fecha
		if t, err := time.Parse("2006-01-02", d.Fecha); err == nil {
			fecha = t.Format("02/01/2006")
		}
		nota := ""
		if d.Nota != nil {
			nota = *d.Nota
		}
		cells := []string{
			fecha,
			d.DiaSemana,
			deref(d.Entrada),
			deref(d.Salida),
			fmt.Sprintf("%d min", d.MinutosPausa),
			d.HorasPrevistas.StringFixed(2),
			d.HorasTrabajadas.StringFixed(2),
		}
		for i, c := range cells {
			align := "C"
			if i >= 5 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 5, tr(c), "1", 0, align, false, 0, "")
		}
		if r := []rune(nota); len(r) > 28 {
			nota = string(r[:27]) + "…"
		}
		pdf.CellFormat(notaW, 5, tr(nota), "1", 1, "L", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	labelW := contentW - 30
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, tr("Días trabajados:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 5, fmt.Sprintf("%d", inf.DiasTrabajados), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, "Horas previstas:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 5, inf.HorasPrevistas.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "Horas trabajadas:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, inf.HorasTrabajadas.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 5, "Diferencia:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 5, inf.Diferencia.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Signatures ───────────────────────────────────────────────────────────
	pdf.Ln(12)
	boxW := (contentW - 10) / 2
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(boxW, 20, "", "1", 0, "", false, 0, "")
	pdf.CellFormat(10, 20, "", "", 0, "", false, 0, "")
	pdf.CellFormat(boxW, 20, "", "1", 1, "", false, 0, "")
	pdf.CellFormat(boxW, 5, "Firma del trabajador", "", 0, "C", false, 0, "")
	pdf.CellFormat(10, 5, "", "", 0, "", false, 0, "")
	pdf.CellFormat(boxW, 5, "Firma de la empresa", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var meses = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func nombreMes(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return meses[m-1]
}
