package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Horario is a named shift template: weekday flags plus entry/exit times.
// HoraEntrada and HoraSalida are wall-clock "HH:MM"; a salida earlier than
// the entrada means the shift ends the following day.
type Horario struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	Nombre         string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	Lunes          bool      `gorm:"not null;default:false"`
	Martes         bool      `gorm:"not null;default:false"`
	Miercoles      bool      `gorm:"not null;default:false"`
	Jueves         bool      `gorm:"not null;default:false"`
	Viernes        bool      `gorm:"not null;default:false"`
	Sabado         bool      `gorm:"not null;default:false"`
	Domingo        bool      `gorm:"not null;default:false"`
	HoraEntrada    string    `gorm:"type:varchar(5);not null"`
	HoraSalida     string    `gorm:"type:varchar(5);not null"`
	TiempoPausaMin int       `gorm:"not null;default:0"`
	Activo         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Horario) TableName() string { return "horarios" }

func (h *Horario) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TrabajaEl reports whether the weekday flag for d is set.
func (h Horario) TrabajaEl(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return h.Lunes
	case time.Tuesday:
		return h.Martes
	case time.Wednesday:
		return h.Miercoles
	case time.Thursday:
		return h.Jueves
	case time.Friday:
		return h.Viernes
	case time.Saturday:
		return h.Sabado
	default:
		return h.Domingo
	}
}

// ParseHora parses "HH:MM" into hours and minutes.
func ParseHora(s string) (int, int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("hora %q invalida (HH:MM)", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Entrada returns the scheduled entry instant on the calendar day of dia.
func (h Horario) Entrada(dia time.Time) (time.Time, error) {
	return enDia(dia, h.HoraEntrada)
}

// Salida returns the scheduled exit instant for the shift starting on dia.
func (h Horario) Salida(dia time.Time) (time.Time, error) {
	salida, err := enDia(dia, h.HoraSalida)
	if err != nil {
		return time.Time{}, err
	}
	entrada, err := enDia(dia, h.HoraEntrada)
	if err != nil {
		return time.Time{}, err
	}
	if !salida.After(entrada) {
		salida = salida.AddDate(0, 0, 1)
	}
	return salida, nil
}

// Duracion is the scheduled length of the shift minus the planned pause.
func (h Horario) Duracion() time.Duration {
	ref := time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
	e, err1 := h.Entrada(ref)
	s, err2 := h.Salida(ref)
	if err1 != nil || err2 != nil {
		return 0
	}
	return s.Sub(e) - time.Duration(h.TiempoPausaMin)*time.Minute
}

func enDia(dia time.Time, hora string) (time.Time, error) {
	hh, mm, err := ParseHora(hora)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := dia.Date()
	return time.Date(y, m, d, hh, mm, 0, 0, dia.Location()), nil
}
