package dto

import "time"

type RecordatorioFilter struct {
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type EjecutarRecordatoriosRequest struct {
	// At simulates the wall clock; empty means now.
	At     *time.Time `json:"at"`
	DryRun bool       `json:"dry_run"`
}

type RecordatorioResponse struct {
	UsuarioNIF string    `json:"usuario_nif"`
	Tipo       string    `json:"tipo"`
	Fecha      string    `json:"fecha"`
	Programado time.Time `json:"programado"`
	EnviadoAt  time.Time `json:"enviado_at"`
}

type EjecucionResponse struct {
	At        time.Time              `json:"at"`
	DryRun    bool                   `json:"dry_run"`
	Evaluados int                    `json:"evaluados"`
	Enviados  []RecordatorioResponse `json:"enviados"`
	Omitidos  map[string]int         `json:"omitidos"`
	Errores   int                    `json:"errores"`
}
