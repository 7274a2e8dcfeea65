package service

import (
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
)

// Actor is the authenticated caller, built from the JWT claims.
type Actor struct {
	NIF          string
	Rol          string
	Departamento string
}

func (a Actor) EsAdmin() bool { return a.Rol == model.RolAdministrador }

// EsSupervisor is true for supervisors and administradores.
func (a Actor) EsSupervisor() bool {
	return a.Rol == model.RolSupervisor || a.Rol == model.RolAdministrador
}

// PuedeVer reports whether a may read data owned by a user of departamento.
func (a Actor) PuedeVer(nif, departamento string) bool {
	switch {
	case a.NIF == nif, a.EsAdmin():
		return true
	case a.Rol == model.RolSupervisor:
		return departamento != "" && departamento == a.Departamento
	default:
		return false
	}
}

// Clock returns the current instant in the configured time zone.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

const fechaLayout = "2006-01-02"

// inicioDia returns midnight of t's calendar day in t's location.
func inicioDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func parseFecha(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(fechaLayout, s, loc)
	if err != nil {
		return time.Time{}, invalido("fecha %q invalida (YYYY-MM-DD)", s)
	}
	return t, nil
}

var diasSemana = [...]string{"domingo", "lunes", "martes", "miercoles", "jueves", "viernes", "sabado"}

func nombreDia(d time.Weekday) string { return diasSemana[d] }
