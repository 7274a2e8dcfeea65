package dto

import "time"

type CrearTareaRequest struct {
	Titulo      string  `json:"titulo"       validate:"required,min=2,max=150"`
	Descripcion *string `json:"descripcion"  validate:"omitempty,max=2000"`
	AsignadoNIF string  `json:"asignado_nif" validate:"omitempty,nif"`
	Prioridad   string  `json:"prioridad"    validate:"omitempty,oneof=baja media alta"`
	FechaLimite *string `json:"fecha_limite" validate:"omitempty,datetime=2006-01-02"`
}

type ActualizarTareaRequest struct {
	Titulo      *string `json:"titulo"       validate:"omitempty,min=2,max=150"`
	Descripcion *string `json:"descripcion"  validate:"omitempty,max=2000"`
	AsignadoNIF *string `json:"asignado_nif" validate:"omitempty,nif"`
	Prioridad   *string `json:"prioridad"    validate:"omitempty,oneof=baja media alta"`
	FechaLimite *string `json:"fecha_limite" validate:"omitempty,datetime=2006-01-02"`
}

type CambiarEstadoTareaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente en_progreso completada"`
}

type TareaFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=pendiente en_progreso completada"`
	// Ambito: "asignadas" | "creadas" | "" (both).
	Ambito string `form:"ambito" validate:"omitempty,oneof=asignadas creadas"`
}

type TareaResponse struct {
	ID           string     `json:"id"`
	Titulo       string     `json:"titulo"`
	Descripcion  *string    `json:"descripcion,omitempty"`
	CreadorNIF   string     `json:"creador_nif"`
	AsignadoNIF  string     `json:"asignado_nif"`
	Prioridad    string     `json:"prioridad"`
	Estado       string     `json:"estado"`
	FechaLimite  *string    `json:"fecha_limite,omitempty"`
	Vencida      bool       `json:"vencida"`
	CompletadaAt *time.Time `json:"completada_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
