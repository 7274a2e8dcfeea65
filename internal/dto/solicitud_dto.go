package dto

import "time"

type CrearSolicitudRequest struct {
	Tipo        string  `json:"tipo"         validate:"required,oneof=vacaciones asuntos_propios baja_medica otro"`
	FechaInicio string  `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	FechaFin    string  `json:"fecha_fin"    validate:"required,datetime=2006-01-02"`
	Motivo      *string `json:"motivo"       validate:"omitempty,max=1000"`
}

type RevisarSolicitudRequest struct {
	Aprobar    bool    `json:"aprobar"`
	Comentario *string `json:"comentario" validate:"omitempty,max=1000"`
}

type SolicitudFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente aprobada rechazada cancelada"`
	NIF    string `form:"nif"    validate:"omitempty,nif"`
}

type SolicitudResponse struct {
	ID          string     `json:"id"`
	UsuarioNIF  string     `json:"usuario_nif"`
	Tipo        string     `json:"tipo"`
	FechaInicio string     `json:"fecha_inicio"`
	FechaFin    string     `json:"fecha_fin"`
	Dias        int        `json:"dias"`
	Motivo      *string    `json:"motivo,omitempty"`
	Estado      string     `json:"estado"`
	RevisadaPor *string    `json:"revisada_por,omitempty"`
	Comentario  *string    `json:"comentario,omitempty"`
	RevisadaAt  *time.Time `json:"revisada_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
