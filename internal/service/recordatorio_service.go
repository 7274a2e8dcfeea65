package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/rs/zerolog/log"
)

// margenFichaje is how early before the scheduled entrada a registro still
// counts as clocking that jornada.
const margenFichaje = 4 * time.Hour

// Motivos de omision reported in EjecucionResponse.Omitidos.
const (
	OmitidoFestivo    = "festivo"
	OmitidoAusencia   = "ausencia"
	OmitidoFichado    = "ya_fichado"
	OmitidoDuplicado  = "duplicado"
	OmitidoSinEntrada = "sin_entrada"
)

type RecordatorioConfig struct {
	// Offset is added to the scheduled time; Window is the tolerance around it.
	Offset time.Duration
	Window time.Duration
	AppURL string
}

type RecordatorioOpts struct {
	DryRun bool
}

type RecordatorioService interface {
	// Ejecutar runs one reminder pass as of now.
	Ejecutar(ctx context.Context, now time.Time, opts RecordatorioOpts) (*dto.EjecucionResponse, error)
	Listar(ctx context.Context, fecha string) ([]dto.RecordatorioResponse, error)
}

type recordatorioService struct {
	repo          repository.RecordatorioRepository
	usuarioRepo   repository.UsuarioRepository
	turnoRepo     repository.TurnoRepository
	registroRepo  repository.RegistroRepository
	solicitudRepo repository.SolicitudRepository
	festivos      *infra.Festivos
	emails        EmailQueue
	metrics       *infra.Metrics
	clock         Clock
	cfg           RecordatorioConfig
}

type RecordatorioDeps struct {
	Repo          repository.RecordatorioRepository
	UsuarioRepo   repository.UsuarioRepository
	TurnoRepo     repository.TurnoRepository
	RegistroRepo  repository.RegistroRepository
	SolicitudRepo repository.SolicitudRepository
	Festivos      *infra.Festivos
	Emails        EmailQueue
	Metrics       *infra.Metrics
	Clock         Clock
}

func NewRecordatorioService(d RecordatorioDeps, cfg RecordatorioConfig) RecordatorioService {
	return &recordatorioService{
		repo:          d.Repo,
		usuarioRepo:   d.UsuarioRepo,
		turnoRepo:     d.TurnoRepo,
		registroRepo:  d.RegistroRepo,
		solicitudRepo: d.SolicitudRepo,
		festivos:      d.Festivos,
		emails:        d.Emails,
		metrics:       d.Metrics,
		clock:         d.Clock,
		cfg:           cfg,
	}
}

// candidato is one (user, tipo, jornada) whose reminder is due now.
type candidato struct {
	usuario    *model.Usuario
	tipo       string
	plan       DiaPlan
	programado time.Time
	entrada    time.Time
}

func (s *recordatorioService) Ejecutar(ctx context.Context, now time.Time, opts RecordatorioOpts) (*dto.EjecucionResponse, error) {
	if s.clock != nil {
		now = now.In(s.clock().Location())
	}
	res := &dto.EjecucionResponse{
		At:       now,
		DryRun:   opts.DryRun,
		Enviados: []dto.RecordatorioResponse{},
		Omitidos: map[string]int{},
	}

	usuarios, err := s.usuarioRepo.ListParaRecordatorio(ctx)
	if err != nil {
		return nil, fmt.Errorf("usuarios: %w", err)
	}
	todos, err := s.turnoRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("turnos: %w", err)
	}
	turnos := make(map[string][]model.Turno)
	for _, t := range todos {
		turnos[t.UsuarioNIF] = append(turnos[t.UsuarioNIF], t)
	}
	hoy := inicioDia(now)
	ayer := hoy.AddDate(0, 0, -1)
	aprobadas, err := s.solicitudRepo.AprobadasEnRango(ctx, "", ayer.Format(fechaLayout), hoy.Format(fechaLayout))
	if err != nil {
		return nil, fmt.Errorf("solicitudes: %w", err)
	}

	for i := range usuarios {
		u := &usuarios[i]
		res.Evaluados++
		for _, c := range s.candidatos(u, turnos[u.NIF], aprobadas, now, hoy, ayer) {
			if err := s.procesar(ctx, c, now, opts, res); err != nil {
				res.Errores++
				s.metrics.IncRecordatorio(c.tipo, "error")
				log.Error().Err(err).Str("nif", u.NIF).Str("tipo", c.tipo).Msg("recordatorios: fallo al procesar")
			}
		}
	}

	log.Info().
		Time("at", now).
		Bool("dry_run", opts.DryRun).
		Int("evaluados", res.Evaluados).
		Int("enviados", len(res.Enviados)).
		Int("errores", res.Errores).
		Msg("recordatorios: pasada completada")
	return res, nil
}

// candidatos returns the reminders whose target time (scheduled + offset)
// is within the window of now. Salida also looks at yesterday's jornada so
// overnight shifts are covered.
func (s *recordatorioService) candidatos(u *model.Usuario, turnos []model.Turno, aprobadas []model.Solicitud, now, hoy, ayer time.Time) []candidato {
	var out []candidato
	enVentana := func(programado time.Time) bool {
		d := now.Sub(programado.Add(s.cfg.Offset))
		if d < 0 {
			d = -d
		}
		return d <= s.cfg.Window
	}

	planHoy := Planificar(u, turnos, s.festivos, aprobadas, hoy)
	if planHoy.Horario != nil {
		if e, err := planHoy.Horario.Entrada(hoy); err == nil && enVentana(e) {
			out = append(out, candidato{usuario: u, tipo: model.TipoEntrada, plan: planHoy, programado: e, entrada: e})
		}
	}
	for _, dia := range []time.Time{ayer, hoy} {
		plan := planHoy
		if dia.Equal(ayer) {
			plan = Planificar(u, turnos, s.festivos, aprobadas, ayer)
		}
		if plan.Horario == nil {
			continue
		}
		salida, err1 := plan.Horario.Salida(dia)
		entrada, err2 := plan.Horario.Entrada(dia)
		if err1 == nil && err2 == nil && enVentana(salida) {
			out = append(out, candidato{usuario: u, tipo: model.TipoSalida, plan: plan, programado: salida, entrada: entrada})
		}
	}
	return out
}

func (s *recordatorioService) procesar(ctx context.Context, c candidato, now time.Time, opts RecordatorioOpts, res *dto.EjecucionResponse) error {
	nif := c.usuario.NIF
	fecha := c.plan.Fecha.Format(fechaLayout)

	switch {
	case c.plan.Festivo != "":
		res.Omitidos[OmitidoFestivo]++
		return nil
	case c.plan.Ausencia != "":
		res.Omitidos[OmitidoAusencia]++
		return nil
	}

	omitido, err := s.yaFichado(ctx, c, now)
	if err != nil {
		return err
	}
	if omitido != "" {
		res.Omitidos[omitido]++
		return nil
	}

	existe, err := s.repo.Existe(ctx, nif, c.tipo, fecha)
	if err != nil {
		return fmt.Errorf("comprobar recordatorio: %w", err)
	}
	if existe {
		res.Omitidos[OmitidoDuplicado]++
		return nil
	}

	rec := &model.RecordatorioEnviado{UsuarioNIF: nif, Tipo: c.tipo, Fecha: fecha, Programado: c.programado, EnviadoAt: now}
	if opts.DryRun {
		res.Enviados = append(res.Enviados, recordatorioToResponse(rec))
		return nil
	}

	// The row goes in first so that concurrent passes cannot both send.
	if err := s.repo.Registrar(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrYaEnviado) {
			res.Omitidos[OmitidoDuplicado]++
			s.metrics.IncRecordatorio(c.tipo, "duplicado")
			return nil
		}
		return fmt.Errorf("registrar recordatorio: %w", err)
	}
	if err := s.encolar(ctx, c, fecha); err != nil {
		if derr := s.repo.Delete(ctx, nif, c.tipo, fecha); derr != nil {
			log.Error().Err(derr).Str("nif", nif).Msg("recordatorios: no se pudo revertir el registro")
		}
		return fmt.Errorf("encolar email: %w", err)
	}

	s.metrics.IncRecordatorio(c.tipo, "enviado")
	res.Enviados = append(res.Enviados, recordatorioToResponse(rec))
	log.Info().Str("nif", nif).Str("tipo", c.tipo).Str("fecha", fecha).Msg("recordatorios: email encolado")
	return nil
}

// yaFichado returns the skip reason when the user needs no reminder for c.
// An entrada counts once any entrada exists for the jornada. A salida is
// judged by the current state: a user who left and came back in is still
// working and gets the reminder.
func (s *recordatorioService) yaFichado(ctx context.Context, c candidato, now time.Time) (string, error) {
	nif := c.usuario.NIF
	desde := c.entrada.Add(-margenFichaje)
	if c.tipo == model.TipoEntrada {
		fichado, err := s.registroRepo.ExisteTipoDesde(ctx, nif, model.TipoEntrada, desde)
		if err != nil {
			return "", fmt.Errorf("comprobar fichaje: %w", err)
		}
		if fichado {
			return OmitidoFichado, nil
		}
		return "", nil
	}

	ultimo, err := s.registroRepo.Ultimo(ctx, nif)
	if err != nil {
		return "", fmt.Errorf("comprobar estado: %w", err)
	}
	switch {
	case ultimo == nil || ultimo.FechaHora.Before(desde):
		return OmitidoSinEntrada, nil
	case EstadoDesde(ultimo, now) == EstadoFuera:
		return OmitidoFichado, nil
	default:
		return "", nil
	}
}

func (s *recordatorioService) encolar(ctx context.Context, c candidato, fecha string) error {
	if s.emails == nil {
		return errors.New("cola de emails no configurada")
	}
	p := plantillaRecordatorioEntrada
	if c.tipo == model.TipoSalida {
		p = plantillaRecordatorioSalida
	}
	data := map[string]string{
		"Nombre":  c.usuario.Nombre,
		"Horario": c.plan.Horario.Nombre,
		"Hora":    c.programado.Format("15:04"),
		"URL":     s.cfg.AppURL,
	}
	job, err := p.render(c.usuario.Email, fmt.Sprintf("recordatorio:%s:%s:%s", c.tipo, c.usuario.NIF, fecha), data)
	if err != nil {
		return err
	}
	return s.emails.EnqueueEmail(ctx, job)
}

func (s *recordatorioService) Listar(ctx context.Context, fecha string) ([]dto.RecordatorioResponse, error) {
	if fecha == "" {
		fecha = s.clock().Format(fechaLayout)
	}
	rs, err := s.repo.ListByFecha(ctx, fecha)
	if err != nil {
		return nil, fmt.Errorf("listar recordatorios: %w", err)
	}
	resp := make([]dto.RecordatorioResponse, len(rs))
	for i := range rs {
		resp[i] = recordatorioToResponse(&rs[i])
	}
	return resp, nil
}

func recordatorioToResponse(r *model.RecordatorioEnviado) dto.RecordatorioResponse {
	return dto.RecordatorioResponse{
		UsuarioNIF: r.UsuarioNIF,
		Tipo:       r.Tipo,
		Fecha:      r.Fecha,
		Programado: r.Programado,
		EnviadoAt:  r.EnviadoAt,
	}
}
