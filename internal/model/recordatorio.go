package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordatorioEnviado is the dedupe row for clock reminders: at most one per
// (usuario, tipo, fecha), enforced by the unique index.
type RecordatorioEnviado struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF string    `gorm:"column:usuario_nif;type:varchar(15);not null;uniqueIndex:uq_recordatorio_dia,priority:1"`
	Tipo       string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_recordatorio_dia,priority:2"`
	Fecha      string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_recordatorio_dia,priority:3"`
	Programado time.Time `gorm:"not null"`
	EnviadoAt  time.Time `gorm:"not null"`
}

func (RecordatorioEnviado) TableName() string { return "recordatorios_enviados" }

func (r *RecordatorioEnviado) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
