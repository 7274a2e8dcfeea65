package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibilidad de eventos
const (
	VisibilidadPersonal     = "personal"
	VisibilidadDepartamento = "departamento"
	VisibilidadGlobal       = "global"
)

// Evento is a calendar item. Departamento is only meaningful when
// Visibilidad is "departamento".
type Evento struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Titulo       string    `gorm:"type:varchar(150);not null"`
	Descripcion  *string   `gorm:"type:text"`
	Inicio       time.Time `gorm:"not null;index"`
	Fin          time.Time `gorm:"not null"`
	TodoElDia    bool      `gorm:"not null;default:false"`
	Visibilidad  string    `gorm:"type:varchar(15);not null;default:'personal'"`
	Departamento *string   `gorm:"type:varchar(80)"`
	CreadorNIF   string    `gorm:"column:creador_nif;type:varchar(15);index;not null"`
	Color        *string   `gorm:"type:varchar(10)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Evento) TableName() string { return "eventos" }

func (e *Evento) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
