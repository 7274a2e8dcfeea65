package service

import (
	"testing"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turno(h *model.Horario, semanas, dias string, prioridad int, creado time.Time) model.Turno {
	return model.Turno{
		ID: uuid.New(), UsuarioNIF: empleada.NIF, HorarioID: h.ID, Horario: h,
		Semanas: semanas, Dias: dias, Prioridad: prioridad, CreatedAt: creado,
	}
}

func TestResolverHorario_PorDefectoSegunDiaDeLaSemana(t *testing.T) {
	u := &model.Usuario{NIF: empleada.NIF, Horario: horarioOficina()}

	lunes := en(2026, 10, 19, 0, 0)
	sabado := en(2026, 10, 24, 0, 0)
	require.NotNil(t, ResolverHorario(u, nil, lunes))
	assert.Equal(t, "Oficina", ResolverHorario(u, nil, lunes).Nombre)
	assert.Nil(t, ResolverHorario(u, nil, sabado))
}

func TestResolverHorario_TurnoSustituyeAlPorDefecto(t *testing.T) {
	u := &model.Usuario{NIF: empleada.NIF, Horario: horarioOficina()}
	guardia := &model.Horario{ID: uuid.New(), Nombre: "Guardia", Activo: true, HoraEntrada: "10:00", HoraSalida: "14:00"}
	// Saturdays of every week.
	ts := []model.Turno{turno(guardia, "11111", "0000010", 0, en(2026, 1, 1, 0, 0))}

	h := ResolverHorario(u, ts, en(2026, 10, 24, 0, 0))
	require.NotNil(t, h)
	assert.Equal(t, "Guardia", h.Nombre, "turno bits override the horario weekday flags")
	assert.Equal(t, "Oficina", ResolverHorario(u, ts, en(2026, 10, 19, 0, 0)).Nombre)
}

func TestResolverHorario_PrioridadYAntiguedad(t *testing.T) {
	u := &model.Usuario{NIF: empleada.NIF}
	a := &model.Horario{ID: uuid.New(), Nombre: "A", Activo: true, HoraEntrada: "08:00", HoraSalida: "15:00"}
	b := &model.Horario{ID: uuid.New(), Nombre: "B", Activo: true, HoraEntrada: "15:00", HoraSalida: "22:00"}
	c := &model.Horario{ID: uuid.New(), Nombre: "C", Activo: true, HoraEntrada: "22:00", HoraSalida: "06:00"}
	lunes := en(2026, 10, 19, 0, 0)

	ts := []model.Turno{
		turno(b, "11111", "1111111", 5, en(2026, 3, 1, 0, 0)),
		turno(a, "11111", "1111111", 5, en(2026, 2, 1, 0, 0)),
		turno(c, "11111", "1111111", 1, en(2026, 1, 1, 0, 0)),
	}
	assert.Equal(t, "A", ResolverHorario(u, ts, lunes).Nombre, "same prioridad: oldest wins")

	ts[1].Horario = &model.Horario{ID: a.ID, Nombre: "A", Activo: false}
	assert.Equal(t, "B", ResolverHorario(u, ts, lunes).Nombre, "inactive horarios are skipped")
}

func TestResolverHorario_IgnoraTurnosDeOtros(t *testing.T) {
	u := &model.Usuario{NIF: empleada.NIF}
	tr := turno(horarioOficina(), "11111", "1111111", 0, time.Time{})
	tr.UsuarioNIF = ajeno.NIF
	assert.Nil(t, ResolverHorario(u, []model.Turno{tr}, en(2026, 10, 19, 0, 0)))
}

func TestPlanificar_FestivoYAusencia(t *testing.T) {
	u := &model.Usuario{NIF: empleada.NIF, Horario: horarioOficina()}
	festivos := infra.NewFestivos(infra.Festivo{Fecha: "2026-10-12", Nombre: "Fiesta Nacional"})
	vacaciones := []model.Solicitud{
		{UsuarioNIF: empleada.NIF, Tipo: "vacaciones", Estado: model.SolicitudAprobada, FechaInicio: "2026-10-20", FechaFin: "2026-10-21"},
		{UsuarioNIF: empleada.NIF, Tipo: "asuntos_propios", Estado: model.SolicitudPendiente, FechaInicio: "2026-10-22", FechaFin: "2026-10-22"},
	}

	festivo := Planificar(u, nil, festivos, vacaciones, en(2026, 10, 12, 0, 0))
	assert.False(t, festivo.Laborable())
	assert.Zero(t, festivo.Previsto())

	got := Planificar(u, nil, festivos, vacaciones, en(2026, 10, 20, 0, 0)).toDTO()
	want := dto.DiaCalendario{
		Fecha: "2026-10-20", DiaSemana: "martes", Laborable: false,
		Horario: strp("Oficina"), Entrada: strp("09:00"), Salida: strp("17:00"),
		Ausencia: strp("vacaciones"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiaCalendario mismatch (-want +got):\n%s", diff)
	}

	pendiente := Planificar(u, nil, festivos, vacaciones, en(2026, 10, 22, 0, 0))
	assert.True(t, pendiente.Laborable(), "pending solicitudes do not excuse the day")
	assert.Equal(t, 7*time.Hour, pendiente.Previsto())
}
