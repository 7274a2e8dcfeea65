package service

import (
	"context"
	"testing"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncidenciaFixture() (IncidenciaService, *stubEmails, *reloj) {
	r := &reloj{t: en(2026, 10, 19, 10, 0)}
	usuarios := usuariosBase()
	emails := &stubEmails{}
	return NewIncidenciaService(newStubIncidenciaRepo(usuarios), usuarios, emails, r.ahora), emails, r
}

func crearIncidencia(t *testing.T, svc IncidenciaService, actor Actor) *dto.IncidenciaResponse {
	t.Helper()
	inc, err := svc.Crear(context.Background(), actor, dto.CrearIncidenciaRequest{
		Tipo: "fichaje", Fecha: "2026-10-16", Descripcion: "Olvide fichar la salida",
	})
	require.NoError(t, err)
	return inc
}

func TestPuedeTransicionar(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{model.IncidenciaPendiente, model.IncidenciaEnRevision, true},
		{model.IncidenciaPendiente, model.IncidenciaResuelta, true},
		{model.IncidenciaPendiente, model.IncidenciaRechazada, true},
		{model.IncidenciaEnRevision, model.IncidenciaResuelta, true},
		{model.IncidenciaEnRevision, model.IncidenciaPendiente, false},
		{model.IncidenciaResuelta, model.IncidenciaPendiente, false},
		{model.IncidenciaRechazada, model.IncidenciaEnRevision, false},
		{model.IncidenciaPendiente, model.IncidenciaPendiente, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PuedeTransicionar(tt.from, tt.to), "%s → %s", tt.from, tt.to)
	}
}

func TestCrearIncidencia_Validaciones(t *testing.T) {
	svc, _, _ := newIncidenciaFixture()
	ctx := context.Background()

	_, err := svc.Crear(ctx, empleada, dto.CrearIncidenciaRequest{Tipo: "otro", Fecha: "2026-10-20", Descripcion: "futura"})
	assert.ErrorIs(t, err, ErrValidacion)

	mal := "no-es-uuid"
	_, err = svc.Crear(ctx, empleada, dto.CrearIncidenciaRequest{Tipo: "fichaje", Fecha: "2026-10-19", Descripcion: "hoy", RegistroID: &mal})
	assert.ErrorIs(t, err, ErrValidacion)

	inc := crearIncidencia(t, svc, empleada)
	assert.Equal(t, model.IncidenciaPendiente, inc.Estado)
	assert.Equal(t, empleada.NIF, inc.UsuarioNIF)
}

func TestCambiarEstadoIncidencia_FlujoCompleto(t *testing.T) {
	svc, emails, _ := newIncidenciaFixture()
	ctx := context.Background()
	inc := crearIncidencia(t, svc, empleada)
	id := uuid.MustParse(inc.ID)

	_, err := svc.CambiarEstado(ctx, empleada, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaResuelta})
	assert.ErrorIs(t, err, ErrSinPermiso, "employees cannot manage incidencias")

	supervisorVentas := Actor{NIF: ajeno.NIF, Rol: model.RolSupervisor, Departamento: "Ventas"}
	_, err = svc.CambiarEstado(ctx, supervisorVentas, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaEnRevision})
	assert.ErrorIs(t, err, ErrNoEncontrado, "other departments do not see it")

	rev, err := svc.CambiarEstado(ctx, supervisor, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaEnRevision})
	require.NoError(t, err)
	assert.Equal(t, model.IncidenciaEnRevision, rev.Estado)
	assert.Nil(t, rev.ResueltaAt)
	assert.Empty(t, emails.jobs, "only terminal states notify")

	respuesta := "  Corregido en el registro  "
	res, err := svc.CambiarEstado(ctx, supervisor, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaResuelta, Respuesta: &respuesta})
	require.NoError(t, err)
	assert.Equal(t, model.IncidenciaResuelta, res.Estado)
	require.NotNil(t, res.ResueltaPor)
	assert.Equal(t, supervisor.NIF, *res.ResueltaPor)
	require.NotNil(t, res.Respuesta)
	assert.Equal(t, "Corregido en el registro", *res.Respuesta)

	require.Len(t, emails.jobs, 1)
	assert.Equal(t, "11111111h@impulsa.test", emails.jobs[0].To)
	assert.Equal(t, "incidencia:"+inc.ID, emails.jobs[0].Ref)
	assert.Contains(t, emails.jobs[0].Text, "Corregido en el registro")

	_, err = svc.CambiarEstado(ctx, admin, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaRechazada})
	assert.ErrorIs(t, err, ErrConflicto, "terminal states are final")
}

func TestCambiarEstadoIncidencia_TransicionInvalida(t *testing.T) {
	svc, _, _ := newIncidenciaFixture()
	ctx := context.Background()
	inc := crearIncidencia(t, svc, empleada)
	id := uuid.MustParse(inc.ID)

	_, err := svc.CambiarEstado(ctx, supervisor, id, dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaPendiente})
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestCambiarEstadoIncidencia_Propia(t *testing.T) {
	svc, _, _ := newIncidenciaFixture()
	ctx := context.Background()

	propia := crearIncidencia(t, svc, supervisor)
	_, err := svc.CambiarEstado(ctx, supervisor, uuid.MustParse(propia.ID), dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaResuelta})
	assert.ErrorIs(t, err, ErrSinPermiso)

	delAdmin := crearIncidencia(t, svc, admin)
	_, err = svc.CambiarEstado(ctx, admin, uuid.MustParse(delAdmin.ID), dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaResuelta})
	assert.NoError(t, err)
}

func TestCambiarEstadoIncidencia_FalloDeCorreoNoBloquea(t *testing.T) {
	svc, emails, _ := newIncidenciaFixture()
	emails.err = errCola
	inc := crearIncidencia(t, svc, empleada)

	res, err := svc.CambiarEstado(context.Background(), supervisor, uuid.MustParse(inc.ID),
		dto.CambiarEstadoIncidenciaRequest{Estado: model.IncidenciaRechazada})
	require.NoError(t, err)
	assert.Equal(t, model.IncidenciaRechazada, res.Estado)
}

func TestListarIncidencias_Alcance(t *testing.T) {
	svc, _, _ := newIncidenciaFixture()
	ctx := context.Background()
	crearIncidencia(t, svc, empleada)
	crearIncidencia(t, svc, empleada)
	crearIncidencia(t, svc, ajeno)

	propias, err := svc.Listar(ctx, empleada, dto.IncidenciaFilter{NIF: ajeno.NIF})
	require.NoError(t, err)
	assert.EqualValues(t, 2, propias.Total, "employees only see their own, whatever the filter")

	equipo, err := svc.Listar(ctx, supervisor, dto.IncidenciaFilter{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, equipo.Total)
	assert.Len(t, equipo.Data, 1)
	assert.Equal(t, 2, equipo.TotalPages)

	_, err = svc.Listar(ctx, supervisor, dto.IncidenciaFilter{NIF: ajeno.NIF})
	assert.ErrorIs(t, err, ErrSinPermiso)

	todas, err := svc.Listar(ctx, admin, dto.IncidenciaFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, todas.Total)

	n, err := svc.ContarAbiertas(ctx, supervisor)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = svc.ContarAbiertas(ctx, ajeno)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
