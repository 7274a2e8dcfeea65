package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPanelFixture(t *testing.T) (PanelService, *stubRegistroRepo) {
	t.Helper()
	ctx := context.Background()
	// Wednesday.
	r := &reloj{t: en(2026, 10, 21, 11, 0)}
	usuarios := usuariosBase()
	usuarios.put(&model.Usuario{
		NIF: empleada.NIF, Nombre: "Ana", Email: "ana@impulsa.test", Rol: model.RolEmpleado,
		Departamento: "Soporte", Activo: true, Horario: horarioOficina(),
	})

	registros := &stubRegistroRepo{}
	registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 9, 0))
	registros.add(empleada.NIF, model.TipoSalida, en(2026, 10, 19, 17, 0))
	registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 20, 9, 0))
	registros.add(empleada.NIF, model.TipoSalida, en(2026, 10, 20, 14, 0))
	registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 21, 9, 0))

	emails := &stubEmails{}
	fichajes := NewFichajeService(registros, usuarios, stubCentros{}, infra.NewMetrics(), r.ahora, FichajeConfig{})
	horarios := NewHorarioService(newStubHorarioRepo(), &stubTurnoRepo{}, usuarios, newStubSolicitudRepo(), infra.NewFestivos(), r.ahora)
	tareas := NewTareaService(newStubTareaRepo(), usuarios, emails, r.ahora)
	incidencias := NewIncidenciaService(newStubIncidenciaRepo(usuarios), usuarios, emails, r.ahora)
	eventos := NewEventoService(newStubEventoRepo(), r.ahora)

	_, err := tareas.Crear(ctx, empleada, dto.CrearTareaRequest{Titulo: "Cerrar tickets"})
	require.NoError(t, err)
	_, err = incidencias.Crear(ctx, empleada, dto.CrearIncidenciaRequest{Tipo: "equipo", Fecha: "2026-10-20", Descripcion: "Portatil sin bateria"})
	require.NoError(t, err)
	_, err = eventos.Crear(ctx, admin, dto.CrearEventoRequest{
		Titulo: "Formacion", Visibilidad: model.VisibilidadGlobal,
		Inicio: en(2026, 10, 23, 10, 0), Fin: en(2026, 10, 23, 12, 0),
	})
	require.NoError(t, err)

	return NewPanelService(fichajes, horarios, tareas, incidencias, eventos, r.ahora), registros
}

func TestPanelResumen(t *testing.T) {
	svc, _ := newPanelFixture(t)

	p, err := svc.Resumen(context.Background(), empleada)
	require.NoError(t, err)
	assert.Equal(t, EstadoTrabajando, p.Estado)
	assert.Equal(t, "2", p.HorasHoy.String())
	// 8 h Monday + 5 h Tuesday + 2 h so far today.
	assert.Equal(t, "15", p.HorasSemana.String())
	require.NotNil(t, p.HorarioHoy)
	assert.True(t, p.HorarioHoy.Laborable)
	require.NotNil(t, p.HorarioHoy.Entrada)
	assert.Equal(t, "09:00", *p.HorarioHoy.Entrada)
	assert.EqualValues(t, 1, p.TareasPendientes)
	assert.EqualValues(t, 1, p.IncidenciasAbiertas)
	require.Len(t, p.ProximosEventos, 1)
	assert.Equal(t, "Formacion", p.ProximosEventos[0].Titulo)
	assert.Equal(t, en(2026, 10, 21, 11, 0), p.GeneradoAt)
}

func TestPanelResumen_FalloParcial(t *testing.T) {
	svc, registros := newPanelFixture(t)
	registros.err = errors.New("timeout")

	_, err := svc.Resumen(context.Background(), empleada)
	assert.Error(t, err)
}
