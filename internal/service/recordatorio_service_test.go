package service

import (
	"context"
	"testing"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordatorioFixture struct {
	svc         RecordatorioService
	repo        *stubRecordatorioRepo
	usuarios    *stubUsuarioRepo
	registros   *stubRegistroRepo
	turnos      *stubTurnoRepo
	solicitudes *stubSolicitudRepo
	emails      *stubEmails
	metrics     *infra.Metrics
}

func newRecordatorioFixture(t *testing.T, festivos *infra.Festivos) *recordatorioFixture {
	t.Helper()
	return newRecordatorioFixtureCfg(t, festivos, RecordatorioConfig{Offset: 10 * time.Minute, Window: 5 * time.Minute, AppURL: "https://fichar.impulsa.test"})
}

func newRecordatorioFixtureCfg(t *testing.T, festivos *infra.Festivos, cfg RecordatorioConfig) *recordatorioFixture {
	t.Helper()
	f := &recordatorioFixture{
		repo:        newStubRecordatorioRepo(),
		usuarios:    newStubUsuarioRepo(),
		registros:   &stubRegistroRepo{},
		turnos:      &stubTurnoRepo{},
		solicitudes: newStubSolicitudRepo(),
		emails:      &stubEmails{},
		metrics:     infra.NewMetrics(),
	}
	f.usuarios.put(&model.Usuario{
		NIF: empleada.NIF, Nombre: "Ana", Email: "ana@impulsa.test", Rol: model.RolEmpleado,
		Activo: true, Recordatorios: true, Horario: horarioOficina(),
	})
	f.usuarios.put(&model.Usuario{
		NIF: ajeno.NIF, Nombre: "Sin avisos", Email: "no@impulsa.test", Rol: model.RolEmpleado,
		Activo: true, Recordatorios: false, Horario: horarioOficina(),
	})
	f.svc = NewRecordatorioService(RecordatorioDeps{
		Repo:          f.repo,
		UsuarioRepo:   f.usuarios,
		TurnoRepo:     f.turnos,
		RegistroRepo:  f.registros,
		SolicitudRepo: f.solicitudes,
		Festivos:      festivos,
		Emails:        f.emails,
		Metrics:       f.metrics,
		Clock:         func() time.Time { return time.Now().UTC() },
	}, cfg)
	return f
}

func TestRecordatorios_EntradaSeEnviaUnaVez(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	ctx := context.Background()
	now := en(2026, 10, 19, 9, 12) // lunes

	res, err := f.svc.Ejecutar(ctx, now, RecordatorioOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Evaluados, "users with reminders off are not evaluated")
	require.Len(t, res.Enviados, 1)
	assert.Equal(t, model.TipoEntrada, res.Enviados[0].Tipo)
	assert.Equal(t, "2026-10-19", res.Enviados[0].Fecha)
	assert.Equal(t, en(2026, 10, 19, 9, 0), res.Enviados[0].Programado)

	require.Len(t, f.emails.jobs, 1)
	job := f.emails.jobs[0]
	assert.Equal(t, "ana@impulsa.test", job.To)
	assert.Contains(t, job.Subject, "09:00")
	assert.Contains(t, job.Text, "https://fichar.impulsa.test")
	assert.Contains(t, job.HTML, "Oficina")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Recordatorios.WithLabelValues("entrada", "enviado")))

	// Next tick, still inside the window.
	res, err = f.svc.Ejecutar(ctx, now.Add(time.Minute), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Empty(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos[OmitidoDuplicado])
	assert.Len(t, f.emails.jobs, 1)
}

func TestRecordatorios_FueraDeVentana(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	for _, at := range []time.Time{en(2026, 10, 19, 9, 4), en(2026, 10, 19, 9, 16), en(2026, 10, 24, 9, 10)} {
		res, err := f.svc.Ejecutar(context.Background(), at, RecordatorioOpts{})
		require.NoError(t, err)
		assert.Empty(t, res.Enviados, at.String())
	}
	assert.Empty(t, f.emails.jobs)
}

func TestRecordatorios_BordesDeLaVentana(t *testing.T) {
	// Defaults: scheduled 09:00 and 17:00, reminder at +5 min, ±2 min.
	cfg := RecordatorioConfig{Offset: 5 * time.Minute, Window: 2 * time.Minute}
	cases := []struct {
		hh, mm int
		envia  bool
	}{
		{9, 2, false},
		{9, 3, true},
		{9, 5, true},
		{9, 7, true},
		{9, 8, false},
	}
	for _, tc := range cases {
		f := newRecordatorioFixtureCfg(t, nil, cfg)
		at := en(2026, 10, 19, tc.hh, tc.mm)
		res, err := f.svc.Ejecutar(context.Background(), at, RecordatorioOpts{})
		require.NoError(t, err)
		if tc.envia {
			assert.Len(t, res.Enviados, 1, at.Format("15:04"))
		} else {
			assert.Empty(t, res.Enviados, at.Format("15:04"))
		}
	}

	// Seconds count: 09:07:00 is inside, 09:07:01 is not.
	f := newRecordatorioFixtureCfg(t, nil, cfg)
	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 7).Add(time.Second), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Empty(t, res.Enviados)
}

func TestRecordatorios_SalidaTrasVolverAEntrar(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 9, 0))
	f.registros.add(empleada.NIF, model.TipoSalida, en(2026, 10, 19, 12, 0))
	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 13, 0))

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 17, 10), RecordatorioOpts{})
	require.NoError(t, err)
	require.Len(t, res.Enviados, 1)
	assert.Equal(t, model.TipoSalida, res.Enviados[0].Tipo)
}

func TestRecordatorios_SalidaYaFichada(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 9, 0))
	f.registros.add(empleada.NIF, model.TipoSalida, en(2026, 10, 19, 17, 2))

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 17, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Empty(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos[OmitidoFichado])
}

func TestRecordatorios_YaFichado(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 8, 55))

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Empty(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos[OmitidoFichado])
}

func TestRecordatorios_FestivoYAusencia(t *testing.T) {
	f := newRecordatorioFixture(t, infra.NewFestivos(infra.Festivo{Fecha: "2026-10-19", Nombre: "Fiesta local"}))
	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Omitidos[OmitidoFestivo])
	assert.Empty(t, f.emails.jobs)

	f = newRecordatorioFixture(t, nil)
	require.NoError(t, f.solicitudes.Create(context.Background(), &model.Solicitud{
		UsuarioNIF: empleada.NIF, Tipo: "vacaciones", Estado: model.SolicitudAprobada,
		FechaInicio: "2026-10-19", FechaFin: "2026-10-23",
	}))
	res, err = f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Omitidos[OmitidoAusencia])
	assert.Empty(t, f.emails.jobs)
}

func TestRecordatorios_Salida(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	at := en(2026, 10, 19, 17, 10)

	res, err := f.svc.Ejecutar(context.Background(), at, RecordatorioOpts{})
	require.NoError(t, err)
	assert.Empty(t, res.Enviados)
	assert.Equal(t, 1, res.Omitidos[OmitidoSinEntrada], "no salida reminder without an entrada")

	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 9, 1))
	res, err = f.svc.Ejecutar(context.Background(), at, RecordatorioOpts{})
	require.NoError(t, err)
	require.Len(t, res.Enviados, 1)
	assert.Equal(t, model.TipoSalida, res.Enviados[0].Tipo)
	assert.Contains(t, f.emails.jobs[0].Subject, "salida")
}

func TestRecordatorios_SalidaNocturnaDelDiaAnterior(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	noche := &model.Horario{
		Nombre: "Noche", Activo: true, HoraEntrada: "22:00", HoraSalida: "06:00",
		Lunes: true, Martes: true, Miercoles: true, Jueves: true, Viernes: true, Sabado: true, Domingo: true,
	}
	f.usuarios.put(&model.Usuario{
		NIF: empleada.NIF, Nombre: "Ana", Email: "ana@impulsa.test", Activo: true, Recordatorios: true, Horario: noche,
	})
	f.registros.add(empleada.NIF, model.TipoEntrada, en(2026, 10, 19, 21, 58))

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 20, 6, 10), RecordatorioOpts{})
	require.NoError(t, err)
	require.Len(t, res.Enviados, 1)
	assert.Equal(t, model.TipoSalida, res.Enviados[0].Tipo)
	assert.Equal(t, "2026-10-19", res.Enviados[0].Fecha, "dated by the jornada, not by the send day")
}

func TestRecordatorios_DryRunNoEnviaNiRegistra(t *testing.T) {
	f := newRecordatorioFixture(t, nil)

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Len(t, res.Enviados, 1)
	assert.Empty(t, f.emails.jobs)
	assert.Empty(t, f.repo.filas)
}

func TestRecordatorios_FalloDeColaRevierteElRegistro(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	f.emails.err = errCola

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errores)
	assert.Empty(t, res.Enviados)
	assert.Empty(t, f.repo.filas, "the dedupe row is removed so the next tick retries")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Recordatorios.WithLabelValues("entrada", "error")))

	f.emails.err = nil
	res, err = f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 11), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Len(t, res.Enviados, 1)
}

func TestRecordatorios_CarreraEntrePasadas(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	// Another pass registered between our Existe check and Registrar.
	carrera := &carreraRepo{stubRecordatorioRepo: f.repo}
	f.svc = NewRecordatorioService(RecordatorioDeps{
		Repo: carrera, UsuarioRepo: f.usuarios, TurnoRepo: f.turnos, RegistroRepo: f.registros,
		SolicitudRepo: f.solicitudes, Emails: f.emails, Metrics: f.metrics,
	}, RecordatorioConfig{Offset: 10 * time.Minute, Window: 5 * time.Minute})

	res, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Omitidos[OmitidoDuplicado])
	assert.Empty(t, f.emails.jobs)
}

type carreraRepo struct {
	*stubRecordatorioRepo
}

func (r *carreraRepo) Existe(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (r *carreraRepo) Registrar(ctx context.Context, rec *model.RecordatorioEnviado) error {
	otra := *rec
	_ = r.stubRecordatorioRepo.Registrar(ctx, &otra)
	return r.stubRecordatorioRepo.Registrar(ctx, rec)
}

func TestRecordatorios_Listar(t *testing.T) {
	f := newRecordatorioFixture(t, nil)
	_, err := f.svc.Ejecutar(context.Background(), en(2026, 10, 19, 9, 10), RecordatorioOpts{})
	require.NoError(t, err)

	rs, err := f.svc.Listar(context.Background(), "2026-10-19")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, empleada.NIF, rs[0].UsuarioNIF)

	rs, err = f.svc.Listar(context.Background(), "2026-10-18")
	require.NoError(t, err)
	assert.Empty(t, rs)
}
