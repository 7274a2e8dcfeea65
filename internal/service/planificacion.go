package service

import (
	"sort"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
)

// ResolverHorario returns the horario in force for u on fecha.
//
// The highest-prioridad turno that applies to fecha wins (ties go to the
// oldest turno); its week/day bits replace the horario's weekday flags.
// Without a matching turno the user's default horario applies if its flag
// for the weekday is set. Inactive horarios never apply. Nil means día libre.
func ResolverHorario(u *model.Usuario, turnos []model.Turno, fecha time.Time) *model.Horario {
	ordenados := append([]model.Turno(nil), turnos...)
	sort.SliceStable(ordenados, func(i, k int) bool {
		if ordenados[i].Prioridad != ordenados[k].Prioridad {
			return ordenados[i].Prioridad > ordenados[k].Prioridad
		}
		return ordenados[i].CreatedAt.Before(ordenados[k].CreatedAt)
	})
	for _, t := range ordenados {
		if t.UsuarioNIF != u.NIF || t.Horario == nil || !t.Horario.Activo {
			continue
		}
		if t.Aplica(fecha) {
			h := *t.Horario
			return &h
		}
	}
	if u.Horario != nil && u.Horario.Activo && u.Horario.TrabajaEl(fecha.Weekday()) {
		h := *u.Horario
		return &h
	}
	return nil
}

// DiaPlan is what a user is expected to do on one day.
type DiaPlan struct {
	Fecha    time.Time
	Horario  *model.Horario
	Festivo  string
	Ausencia string
}

// Laborable is true when the user is scheduled and not excused.
func (d DiaPlan) Laborable() bool {
	return d.Horario != nil && d.Festivo == "" && d.Ausencia == ""
}

// Previsto is the scheduled working time, zero on non-working days.
func (d DiaPlan) Previsto() time.Duration {
	if !d.Laborable() {
		return 0
	}
	return d.Horario.Duracion()
}

// Planificar builds the DiaPlan for fecha. solicitudes should be the user's
// approved ones; others are ignored.
func Planificar(u *model.Usuario, turnos []model.Turno, festivos *infra.Festivos, solicitudes []model.Solicitud, fecha time.Time) DiaPlan {
	p := DiaPlan{Fecha: fecha, Horario: ResolverHorario(u, turnos, fecha)}
	p.Festivo, _ = festivos.Es(fecha)
	dia := fecha.Format(fechaLayout)
	for _, s := range solicitudes {
		if s.UsuarioNIF == u.NIF && s.Estado == model.SolicitudAprobada && s.Cubre(dia) {
			p.Ausencia = s.Tipo
			break
		}
	}
	return p
}

func (d DiaPlan) toDTO() dto.DiaCalendario {
	out := dto.DiaCalendario{
		Fecha:     d.Fecha.Format(fechaLayout),
		DiaSemana: nombreDia(d.Fecha.Weekday()),
		Laborable: d.Laborable(),
	}
	if d.Horario != nil {
		nombre, entrada, salida := d.Horario.Nombre, d.Horario.HoraEntrada, d.Horario.HoraSalida
		out.Horario, out.Entrada, out.Salida = &nombre, &entrada, &salida
	}
	if d.Festivo != "" {
		f := d.Festivo
		out.Festivo = &f
	}
	if d.Ausencia != "" {
		a := d.Ausencia
		out.Ausencia = &a
	}
	return out
}
