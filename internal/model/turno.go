package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Turno assigns a Horario to a user on a week-of-month / weekday pattern.
//
// Semanas is a 5-char bitstring: position i is week i+1 of the month, where
// the week of day d is (d-1)/7+1. Dias is a 7-char bitstring, Monday first.
// FechaInicio/FechaFin ("YYYY-MM-DD") bound the assignment when set.
type Turno struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF  string    `gorm:"column:usuario_nif;type:varchar(15);index;not null"`
	HorarioID   uuid.UUID `gorm:"type:char(36);not null"`
	Semanas     string    `gorm:"type:char(5);not null;default:'11111'"`
	Dias        string    `gorm:"type:char(7);not null;default:'1111100'"`
	FechaInicio *string   `gorm:"type:varchar(10)"`
	FechaFin    *string   `gorm:"type:varchar(10)"`
	Prioridad   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Horario *Horario `gorm:"foreignKey:HorarioID"`
}

func (Turno) TableName() string { return "turnos" }

func (t *Turno) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SemanaDelMes returns the 1-based week-of-month used by Semanas.
func SemanaDelMes(fecha time.Time) int {
	return (fecha.Day()-1)/7 + 1
}

// IndiceDia maps a weekday to its Dias position (Monday=0 … Sunday=6).
func IndiceDia(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Aplica reports whether the turno covers fecha.
func (t Turno) Aplica(fecha time.Time) bool {
	dia := fecha.Format("2006-01-02")
	if t.FechaInicio != nil && *t.FechaInicio != "" && dia < *t.FechaInicio {
		return false
	}
	if t.FechaFin != nil && *t.FechaFin != "" && dia > *t.FechaFin {
		return false
	}
	semana := SemanaDelMes(fecha)
	if len(t.Semanas) != 5 || t.Semanas[semana-1] != '1' {
		return false
	}
	idx := IndiceDia(fecha.Weekday())
	return len(t.Dias) == 7 && t.Dias[idx] == '1'
}
