package service

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/shopspring/decimal"
)

// InformeService builds the monthly timesheet: planned against worked hours
// per day, as JSON or as a signed-off PDF.
type InformeService interface {
	Mensual(ctx context.Context, actor Actor, nif string, anio, mes int) (*dto.InformeMensualResponse, error)
	// MensualPDF renders Mensual and returns the path of the generated file.
	MensualPDF(ctx context.Context, actor Actor, nif string, anio, mes int) (string, error)
}

type InformeDeps struct {
	UsuarioRepo   repository.UsuarioRepository
	RegistroRepo  repository.RegistroRepository
	TurnoRepo     repository.TurnoRepository
	SolicitudRepo repository.SolicitudRepository
	Festivos      *infra.Festivos
	Clock         Clock
	// Dir is where PDFs are written (REPORT_STORAGE_PATH).
	Dir string
}

type informeService struct {
	d InformeDeps
}

func NewInformeService(d InformeDeps) InformeService {
	return &informeService{d: d}
}

func (s *informeService) Mensual(ctx context.Context, actor Actor, nif string, anio, mes int) (*dto.InformeMensualResponse, error) {
	if mes < 1 || mes > 12 {
		return nil, invalido("mes %d invalido", mes)
	}
	if anio < 2000 || anio > 2100 {
		return nil, invalido("año %d invalido", anio)
	}
	u, err := usuarioVisible(ctx, s.d.UsuarioRepo, actor, nif)
	if err != nil {
		return nil, err
	}

	now := s.d.Clock()
	desde := time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, now.Location())
	hasta := desde.AddDate(0, 1, -1)

	planes, err := planificarRango(ctx, s.d.TurnoRepo, s.d.SolicitudRepo, s.d.Festivos, u, desde, hasta)
	if err != nil {
		return nil, err
	}
	jornadas, err := jornadasEnRango(ctx, s.d.RegistroRepo, u.NIF, desde, hasta, now)
	if err != nil {
		return nil, err
	}
	trabajado := make(map[string]dto.ResumenDia)
	for _, d := range ResumirPorDia(jornadas) {
		trabajado[d.Fecha] = d
	}

	resp := &dto.InformeMensualResponse{
		UsuarioNIF:   u.NIF,
		Nombre:       u.NombreCompleto(),
		Departamento: u.Departamento,
		Anio:         anio,
		Mes:          mes,
		Dias:         make([]dto.InformeDia, 0, len(planes)),
	}
	minPrevistos, minTrabajados := 0, 0
	for _, p := range planes {
		fecha := p.Fecha.Format(fechaLayout)
		previsto := int(p.Previsto() / time.Minute)
		dia := dto.InformeDia{
			Fecha:          fecha,
			DiaSemana:      nombreDia(p.Fecha.Weekday()),
			HorasPrevistas: Horas(previsto),
		}
		minPrevistos += previsto

		var nota string
		switch {
		case p.Festivo != "":
			nota = p.Festivo
		case p.Ausencia != "":
			nota = p.Ausencia
		}
		if r, ok := trabajado[fecha]; ok {
			if r.Entrada != nil {
				e := r.Entrada.In(now.Location()).Format("15:04")
				dia.Entrada = &e
			}
			if r.Salida != nil {
				sal := r.Salida.In(now.Location()).Format("15:04")
				dia.Salida = &sal
			}
			dia.MinutosPausa = r.MinutosPausa
			dia.HorasTrabajadas = r.Horas
			minTrabajados += r.MinutosTrabajados
			resp.DiasTrabajados++
			if !r.Completo && nota == "" {
				nota = "incompleto"
			}
		} else {
			dia.HorasTrabajadas = decimal.Zero
		}
		if nota != "" {
			dia.Nota = &nota
		}
		resp.Dias = append(resp.Dias, dia)
	}
	resp.HorasPrevistas = Horas(minPrevistos)
	resp.HorasTrabajadas = Horas(minTrabajados)
	resp.Diferencia = resp.HorasTrabajadas.Sub(resp.HorasPrevistas)
	return resp, nil
}

func (s *informeService) MensualPDF(ctx context.Context, actor Actor, nif string, anio, mes int) (string, error) {
	inf, err := s.Mensual(ctx, actor, nif, anio, mes)
	if err != nil {
		return "", err
	}
	return infra.GenerateInformePDF(inf, s.d.Dir, s.d.Clock())
}
