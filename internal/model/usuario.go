package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RolEmpleado      = "empleado"
	RolSupervisor    = "supervisor"
	RolAdministrador = "administrador"
)

// Usuario is an employee. The NIF is the natural primary key and every
// other table references it as usuario_nif.
type Usuario struct {
	NIF          string  `gorm:"column:nif;type:varchar(15);primaryKey"`
	Nombre       string  `gorm:"type:varchar(100);not null"`
	Apellidos    string  `gorm:"type:varchar(150)"`
	Email        string  `gorm:"type:varchar(150);uniqueIndex;not null"`
	Telefono     *string `gorm:"type:varchar(20)"`
	PasswordHash string  `gorm:"type:varchar(100);not null"`
	Rol          string  `gorm:"type:varchar(20);not null;default:'empleado'"`
	Departamento string  `gorm:"type:varchar(80);index"`
	// HorarioID is the default shift when no turno matches the day.
	HorarioID *uuid.UUID `gorm:"type:char(36)"`
	CentroID  *uuid.UUID `gorm:"type:char(36)"`
	// Recordatorios opts the user in/out of the clock reminder emails.
	Recordatorios bool `gorm:"not null;default:true"`
	Activo        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Horario *Horario `gorm:"foreignKey:HorarioID"`
}

func (Usuario) TableName() string { return "usuarios" }

// NombreCompleto joins nombre and apellidos for display.
func (u Usuario) NombreCompleto() string {
	if u.Apellidos == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellidos
}
