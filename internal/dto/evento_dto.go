package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearEventoRequest struct {
	Titulo       string    `json:"titulo"       validate:"required,min=2,max=150"`
	Descripcion  *string   `json:"descripcion"  validate:"omitempty,max=2000"`
	Inicio       time.Time `json:"inicio"       validate:"required"`
	Fin          time.Time `json:"fin"          validate:"required,gtefield=Inicio"`
	TodoElDia    bool      `json:"todo_el_dia"`
	Visibilidad  string    `json:"visibilidad"  validate:"required,oneof=personal departamento global"`
	Departamento *string   `json:"departamento" validate:"omitempty,max=80"`
	Color        *string   `json:"color"        validate:"omitempty,hexcolor"`
}

type ActualizarEventoRequest struct {
	Titulo       *string    `json:"titulo"       validate:"omitempty,min=2,max=150"`
	Descripcion  *string    `json:"descripcion"  validate:"omitempty,max=2000"`
	Inicio       *time.Time `json:"inicio"`
	Fin          *time.Time `json:"fin"`
	TodoElDia    *bool      `json:"todo_el_dia"`
	Visibilidad  *string    `json:"visibilidad"  validate:"omitempty,oneof=personal departamento global"`
	Departamento *string    `json:"departamento" validate:"omitempty,max=80"`
	Color        *string    `json:"color"        validate:"omitempty,hexcolor"`
}

type EventoFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EventoResponse struct {
	ID           string    `json:"id"`
	Titulo       string    `json:"titulo"`
	Descripcion  *string   `json:"descripcion,omitempty"`
	Inicio       time.Time `json:"inicio"`
	Fin          time.Time `json:"fin"`
	TodoElDia    bool      `json:"todo_el_dia"`
	Visibilidad  string    `json:"visibilidad"`
	Departamento *string   `json:"departamento,omitempty"`
	CreadorNIF   string    `json:"creador_nif"`
	Color        *string   `json:"color,omitempty"`
	Editable     bool      `json:"editable"`
}
