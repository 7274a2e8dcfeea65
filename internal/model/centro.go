package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CentroTrabajo is a geofenced work site.
type CentroTrabajo struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Nombre    string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Direccion *string   `gorm:"type:varchar(200)"`
	Latitud   float64   `gorm:"not null"`
	Longitud  float64   `gorm:"not null"`
	RadioM    float64   `gorm:"column:radio_m;not null;default:100"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CentroTrabajo) TableName() string { return "centros_trabajo" }

func (c *CentroTrabajo) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Ubicacion is one point of a user's location track.
type Ubicacion struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF   string    `gorm:"column:usuario_nif;type:varchar(15);not null;index:idx_ubicaciones_usuario,priority:1"`
	Latitud      float64   `gorm:"not null"`
	Longitud     float64   `gorm:"not null"`
	PrecisionM   *float64  `gorm:"column:precision_m"`
	RegistradaAt time.Time `gorm:"not null;index:idx_ubicaciones_usuario,priority:2"`
}

func (Ubicacion) TableName() string { return "ubicaciones" }

func (u *Ubicacion) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
