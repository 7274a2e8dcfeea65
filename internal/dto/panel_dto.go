package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PanelResponse struct {
	Estado              string           `json:"estado"`
	HorasHoy            decimal.Decimal  `json:"horas_hoy"`
	HorasSemana         decimal.Decimal  `json:"horas_semana"`
	HorarioHoy          *DiaCalendario   `json:"horario_hoy,omitempty"`
	TareasPendientes    int64            `json:"tareas_pendientes"`
	IncidenciasAbiertas int64            `json:"incidencias_abiertas"`
	ProximosEventos     []EventoResponse `json:"proximos_eventos"`
	GeneradoAt          time.Time        `json:"generado_at"`
}
