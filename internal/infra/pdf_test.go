package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInformePDF(t *testing.T) {
	entrada, salida, nota := "08:58", "17:03", "Día de la Hispanidad"
	inf := &dto.InformeMensualResponse{
		UsuarioNIF:   "12345678Z",
		Nombre:       "María Pérez",
		Departamento: "Soporte",
		Anio:         2026,
		Mes:          10,
		Dias: []dto.InformeDia{
			{Fecha: "2026-10-09", DiaSemana: "viernes", Entrada: &entrada, Salida: &salida, MinutosPausa: 30,
				HorasPrevistas: decimal.NewFromInt(8), HorasTrabajadas: decimal.RequireFromString("7.58")},
			{Fecha: "2026-10-12", DiaSemana: "lunes", Nota: &nota},
		},
		DiasTrabajados:  1,
		HorasPrevistas:  decimal.NewFromInt(8),
		HorasTrabajadas: decimal.RequireFromString("7.58"),
		Diferencia:      decimal.RequireFromString("-0.42"),
	}
	dir := filepath.Join(t.TempDir(), "informes")

	path, err := GenerateInformePDF(inf, dir, time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "informe_12345678Z_2026-10.pdf"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(b) > 500)
	assert.Equal(t, "%PDF", string(b[:4]))
}

func TestNombreMes(t *testing.T) {
	assert.Equal(t, "enero", nombreMes(1))
	assert.Equal(t, "diciembre", nombreMes(12))
	assert.Empty(t, nombreMes(13))
}
