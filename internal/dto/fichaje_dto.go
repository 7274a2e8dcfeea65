package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// FicharRequest is the body of clock-in/out and pause calls. Coordinates are
// optional unless GEOFENCE_REQUIRED is on.
type FicharRequest struct {
	Latitud       *float64 `json:"latitud"       validate:"omitempty,latitude"`
	Longitud      *float64 `json:"longitud"      validate:"omitempty,longitude"`
	PrecisionM    *float64 `json:"precision_m"   validate:"omitempty,min=0"`
	Origen        string   `json:"origen"        validate:"omitempty,oneof=web movil"`
	Observaciones *string  `json:"observaciones" validate:"omitempty,max=500"`
}

type RegistroManualRequest struct {
	UsuarioNIF    string    `json:"usuario_nif"   validate:"required,nif"`
	Tipo          string    `json:"tipo"          validate:"required,oneof=entrada salida pausa_inicio pausa_fin"`
	FechaHora     time.Time `json:"fecha_hora"    validate:"required"`
	Observaciones string    `json:"observaciones" validate:"required,min=3,max=500"`
}

// RangoQuery is bound from ?desde=YYYY-MM-DD&hasta=YYYY-MM-DD.
type RangoQuery struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
	NIF   string `form:"nif"   validate:"omitempty,nif"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RegistroResponse struct {
	ID            string    `json:"id"`
	UsuarioNIF    string    `json:"usuario_nif"`
	Nombre        string    `json:"nombre,omitempty"`
	Tipo          string    `json:"tipo"`
	FechaHora     time.Time `json:"fecha_hora"`
	Latitud       *float64  `json:"latitud,omitempty"`
	Longitud      *float64  `json:"longitud,omitempty"`
	CentroID      *string   `json:"centro_id,omitempty"`
	DistanciaM    *float64  `json:"distancia_m,omitempty"`
	DentroZona    *bool     `json:"dentro_zona,omitempty"`
	Origen        string    `json:"origen"`
	Observaciones *string   `json:"observaciones,omitempty"`
}

// EstadoResponse: Estado is "fuera" | "trabajando" | "en_pausa".
type EstadoResponse struct {
	Estado         string            `json:"estado"`
	UltimoRegistro *RegistroResponse `json:"ultimo_registro,omitempty"`
	MinutosHoy     int               `json:"minutos_hoy"`
	HorasHoy       decimal.Decimal   `json:"horas_hoy"`
}

type ResumenDia struct {
	Fecha             string          `json:"fecha"`
	Entrada           *time.Time      `json:"entrada,omitempty"`
	Salida            *time.Time      `json:"salida,omitempty"`
	MinutosTrabajados int             `json:"minutos_trabajados"`
	MinutosPausa      int             `json:"minutos_pausa"`
	Horas             decimal.Decimal `json:"horas"`
	// Completo is false when a jornada was left open on a past day.
	Completo bool `json:"completo"`
}

type ResumenResponse struct {
	UsuarioNIF   string          `json:"usuario_nif"`
	Desde        string          `json:"desde"`
	Hasta        string          `json:"hasta"`
	Dias         []ResumenDia    `json:"dias"`
	TotalMinutos int             `json:"total_minutos"`
	TotalHoras   decimal.Decimal `json:"total_horas"`
}
