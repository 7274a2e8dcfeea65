package router

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"gorm.io/gorm"
)

const centrosTTL = 5 * time.Minute

// Infra is what the services need from outside the database.
type Infra struct {
	Emails   service.EmailQueue
	Metrics  *infra.Metrics
	Festivos *infra.Festivos
	Files    *infra.FileStore
	Clock    service.Clock
}

// Services is the full service graph. cmd/server mounts it behind HTTP;
// cmd/recordatorios only uses Recordatorios.
type Services struct {
	Auth          service.AuthService
	Fichajes      service.FichajeService
	Horarios      service.HorarioService
	Ubicaciones   service.UbicacionService
	Eventos       service.EventoService
	Incidencias   service.IncidenciaService
	Tareas        service.TareaService
	Solicitudes   service.SolicitudService
	Documentos    service.DocumentoService
	Informes      service.InformeService
	Panel         service.PanelService
	Recordatorios service.RecordatorioService
	Clock         service.Clock
}

// BuildServices wires repositories and services.
// Dependency graph: Service ← Repository ← DB; Infra is injected as-is.
func BuildServices(cfg *config.Config, db *gorm.DB, in Infra) *Services {
	clock := in.Clock
	if clock == nil {
		clock = service.SystemClock(cfg.Location())
	}
	festivos := in.Festivos
	if festivos == nil {
		festivos = infra.NewFestivos()
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	horarioRepo := repository.NewHorarioRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	registroRepo := repository.NewRegistroRepository(db)
	centroRepo := repository.NewCentroRepository(db)
	ubicacionRepo := repository.NewUbicacionRepository(db)
	eventoRepo := repository.NewEventoRepository(db)
	incidenciaRepo := repository.NewIncidenciaRepository(db)
	tareaRepo := repository.NewTareaRepository(db)
	solicitudRepo := repository.NewSolicitudRepository(db)
	documentoRepo := repository.NewDocumentoRepository(db)
	recordatorioRepo := repository.NewRecordatorioRepository(db)

	centros := infra.NewCentroCache(func(ctx context.Context) ([]model.CentroTrabajo, error) {
		return centroRepo.List(ctx, false)
	}, centrosTTL)

	// ── Services ─────────────────────────────────────────────────────────────
	s := &Services{Clock: clock}
	s.Auth = service.NewAuthService(usuarioRepo, horarioRepo, centroRepo, cfg)
	s.Fichajes = service.NewFichajeService(registroRepo, usuarioRepo, centros, in.Metrics, clock,
		service.FichajeConfig{GeofenceRequired: cfg.GeofenceRequired})
	s.Horarios = service.NewHorarioService(horarioRepo, turnoRepo, usuarioRepo, solicitudRepo, festivos, clock)
	s.Ubicaciones = service.NewUbicacionService(centroRepo, ubicacionRepo, usuarioRepo, centros, clock)
	s.Eventos = service.NewEventoService(eventoRepo, clock)
	s.Incidencias = service.NewIncidenciaService(incidenciaRepo, usuarioRepo, in.Emails, clock)
	s.Tareas = service.NewTareaService(tareaRepo, usuarioRepo, in.Emails, clock)
	s.Solicitudes = service.NewSolicitudService(solicitudRepo, usuarioRepo, in.Emails, clock)
	if in.Files != nil {
		s.Documentos = service.NewDocumentoService(documentoRepo, usuarioRepo, in.Files)
	}
	s.Informes = service.NewInformeService(service.InformeDeps{
		UsuarioRepo:   usuarioRepo,
		RegistroRepo:  registroRepo,
		TurnoRepo:     turnoRepo,
		SolicitudRepo: solicitudRepo,
		Festivos:      festivos,
		Clock:         clock,
		Dir:           cfg.ReportStoragePath,
	})
	s.Panel = service.NewPanelService(s.Fichajes, s.Horarios, s.Tareas, s.Incidencias, s.Eventos, clock)
	s.Recordatorios = service.NewRecordatorioService(service.RecordatorioDeps{
		Repo:          recordatorioRepo,
		UsuarioRepo:   usuarioRepo,
		TurnoRepo:     turnoRepo,
		RegistroRepo:  registroRepo,
		SolicitudRepo: solicitudRepo,
		Festivos:      festivos,
		Emails:        in.Emails,
		Metrics:       in.Metrics,
		Clock:         clock,
	}, service.RecordatorioConfig{
		Offset: cfg.ReminderOffset(),
		Window: cfg.ReminderWindow(),
		AppURL: cfg.AppURL,
	})
	return s
}
