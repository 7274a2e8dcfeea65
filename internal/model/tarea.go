package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estados de tarea
const (
	TareaPendiente  = "pendiente"
	TareaEnProgreso = "en_progreso"
	TareaCompletada = "completada"
)

// Tarea is a to-do item. Prioridad: "baja" | "media" | "alta".
type Tarea struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Titulo       string    `gorm:"type:varchar(150);not null"`
	Descripcion  *string   `gorm:"type:text"`
	CreadorNIF   string    `gorm:"column:creador_nif;type:varchar(15);index;not null"`
	AsignadoNIF  string    `gorm:"column:asignado_nif;type:varchar(15);index;not null"`
	Prioridad    string    `gorm:"type:varchar(10);not null;default:'media'"`
	Estado       string    `gorm:"type:varchar(15);not null;default:'pendiente'"`
	FechaLimite  *string   `gorm:"type:varchar(10)"`
	CompletadaAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Tarea) TableName() string { return "tareas" }

func (t *Tarea) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
