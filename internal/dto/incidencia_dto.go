package dto

import "time"

type CrearIncidenciaRequest struct {
	Tipo        string  `json:"tipo"        validate:"required,oneof=fichaje equipo nomina otro"`
	Fecha       string  `json:"fecha"       validate:"required,datetime=2006-01-02"`
	Descripcion string  `json:"descripcion" validate:"required,min=5,max=2000"`
	RegistroID  *string `json:"registro_id" validate:"omitempty,uuid"`
}

type CambiarEstadoIncidenciaRequest struct {
	Estado    string  `json:"estado"    validate:"required,oneof=en_revision resuelta rechazada"`
	Respuesta *string `json:"respuesta" validate:"omitempty,max=2000"`
}

type IncidenciaFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente en_revision resuelta rechazada"`
	NIF    string `form:"nif"    validate:"omitempty,nif"`
	Page   int    `form:"page"   validate:"omitempty,min=1"`
	Limit  int    `form:"limit"  validate:"omitempty,min=1,max=200"`
}

type IncidenciaResponse struct {
	ID          string     `json:"id"`
	UsuarioNIF  string     `json:"usuario_nif"`
	Nombre      string     `json:"nombre,omitempty"`
	Tipo        string     `json:"tipo"`
	Fecha       string     `json:"fecha"`
	Descripcion string     `json:"descripcion"`
	Estado      string     `json:"estado"`
	Respuesta   *string    `json:"respuesta,omitempty"`
	ResueltaPor *string    `json:"resuelta_por,omitempty"`
	ResueltaAt  *time.Time `json:"resuelta_at,omitempty"`
	RegistroID  *string    `json:"registro_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type IncidenciaListResponse struct {
	Data       []IncidenciaResponse `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}
