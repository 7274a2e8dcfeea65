package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de registro
const (
	TipoEntrada     = "entrada"
	TipoSalida      = "salida"
	TipoPausaInicio = "pausa_inicio"
	TipoPausaFin    = "pausa_fin"
)

// OrdenTipo ranks the tipos of registros that share a FechaHora. A salida
// written together with its pausa_fin must sort after it.
func OrdenTipo(tipo string) int {
	switch tipo {
	case TipoEntrada:
		return 0
	case TipoPausaInicio:
		return 1
	case TipoPausaFin:
		return 2
	case TipoSalida:
		return 3
	default:
		return 4
	}
}

// OrdenTipoSQL is OrdenTipo as an ORDER BY expression over col.
func OrdenTipoSQL(col string) string {
	return fmt.Sprintf("CASE %[1]s WHEN '%[2]s' THEN 0 WHEN '%[3]s' THEN 1 WHEN '%[4]s' THEN 2 WHEN '%[5]s' THEN 3 ELSE 4 END",
		col, TipoEntrada, TipoPausaInicio, TipoPausaFin, TipoSalida)
}

// Registro is a single fichaje event. Registros are append-only; corrections
// are new registros with Origen "manual".
type Registro struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UsuarioNIF string    `gorm:"column:usuario_nif;type:varchar(15);not null;index:idx_registros_usuario_fecha,priority:1"`
	Tipo       string    `gorm:"type:varchar(15);not null"`
	FechaHora  time.Time `gorm:"not null;index:idx_registros_usuario_fecha,priority:2"`
	Latitud    *float64
	Longitud   *float64
	PrecisionM *float64 `gorm:"column:precision_m"`
	// CentroID is the nearest work center when coordinates were sent.
	CentroID      *uuid.UUID `gorm:"type:char(36)"`
	DistanciaM    *float64   `gorm:"column:distancia_m"`
	DentroZona    *bool
	Origen        string  `gorm:"type:varchar(10);not null;default:'web'"`
	Observaciones *string `gorm:"type:text"`
	CreadoPor     *string `gorm:"type:varchar(15)"`
	CreatedAt     time.Time
}

func (Registro) TableName() string { return "registros" }

func (r *Registro) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Antes reports whether r precedes o in time, ties broken by OrdenTipo.
func (r Registro) Antes(o Registro) bool {
	if !r.FechaHora.Equal(o.FechaHora) {
		return r.FechaHora.Before(o.FechaHora)
	}
	return OrdenTipo(r.Tipo) < OrdenTipo(o.Tipo)
}
