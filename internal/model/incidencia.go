package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estados de incidencia
const (
	IncidenciaPendiente  = "pendiente"
	IncidenciaEnRevision = "en_revision"
	IncidenciaResuelta   = "resuelta"
	IncidenciaRechazada  = "rechazada"
)

// Incidencia is an issue reported by an employee (missed fichaje, equipment,
// payroll…). Tipo: "fichaje" | "equipo" | "nomina" | "otro".
type Incidencia struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF  string    `gorm:"column:usuario_nif;type:varchar(15);index;not null"`
	Tipo        string    `gorm:"type:varchar(15);not null"`
	Fecha       string    `gorm:"type:varchar(10);not null"`
	Descripcion string    `gorm:"type:text;not null"`
	Estado      string    `gorm:"type:varchar(15);not null;default:'pendiente';index"`
	Respuesta   *string   `gorm:"type:text"`
	ResueltaPor *string   `gorm:"type:varchar(15)"`
	ResueltaAt  *time.Time
	RegistroID  *uuid.UUID `gorm:"type:char(36)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioNIF;references:NIF"`
}

func (Incidencia) TableName() string { return "incidencias" }

func (i *Incidencia) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the incidencia can no longer change.
func (i Incidencia) Terminal() bool {
	return i.Estado == IncidenciaResuelta || i.Estado == IncidenciaRechazada
}
