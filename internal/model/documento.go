package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Documento is a file stored for an employee (nominas, contratos, justificantes).
// Ruta is relative to UPLOAD_STORAGE_PATH.
type Documento struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF string    `gorm:"column:usuario_nif;type:varchar(15);index;not null"`
	Nombre     string    `gorm:"type:varchar(200);not null"`
	Ruta       string    `gorm:"type:varchar(300);not null"`
	Mime       string    `gorm:"type:varchar(100);not null"`
	Tamano     int64     `gorm:"not null"`
	Categoria  string    `gorm:"type:varchar(30);not null;default:'general'"`
	SubidoPor  string    `gorm:"type:varchar(15);not null"`
	CreatedAt  time.Time
}

func (Documento) TableName() string { return "documentos" }

func (d *Documento) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
