package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estados de solicitud
const (
	SolicitudPendiente = "pendiente"
	SolicitudAprobada  = "aprobada"
	SolicitudRechazada = "rechazada"
	SolicitudCancelada = "cancelada"
)

// Solicitud is a day-off request covering FechaInicio..FechaFin inclusive.
// Tipo: "vacaciones" | "asuntos_propios" | "baja_medica" | "otro".
type Solicitud struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF  string    `gorm:"column:usuario_nif;type:varchar(15);index;not null"`
	Tipo        string    `gorm:"type:varchar(20);not null"`
	FechaInicio string    `gorm:"type:varchar(10);not null"`
	FechaFin    string    `gorm:"type:varchar(10);not null"`
	Motivo      *string   `gorm:"type:text"`
	Estado      string    `gorm:"type:varchar(15);not null;default:'pendiente'"`
	RevisadaPor *string   `gorm:"type:varchar(15)"`
	Comentario  *string   `gorm:"type:text"`
	RevisadaAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Solicitud) TableName() string { return "solicitudes" }

func (s *Solicitud) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Cubre reports whether fecha ("YYYY-MM-DD") falls within the request.
func (s Solicitud) Cubre(fecha string) bool {
	return fecha >= s.FechaInicio && fecha <= s.FechaFin
}
