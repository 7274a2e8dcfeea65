package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/rs/zerolog/log"
)

const maxDiasRango = 366

// CentroProvider returns the active work centers. *infra.CentroCache satisfies it.
type CentroProvider interface {
	Activos(ctx context.Context) ([]model.CentroTrabajo, error)
}

type FichajeService interface {
	// Fichar toggles entrada/salida for the actor.
	Fichar(ctx context.Context, actor Actor, req dto.FicharRequest) ([]dto.RegistroResponse, error)
	IniciarPausa(ctx context.Context, actor Actor, req dto.FicharRequest) (*dto.RegistroResponse, error)
	FinalizarPausa(ctx context.Context, actor Actor, req dto.FicharRequest) (*dto.RegistroResponse, error)
	Estado(ctx context.Context, nif string) (*dto.EstadoResponse, error)
	Historial(ctx context.Context, actor Actor, q dto.RangoQuery) ([]dto.RegistroResponse, error)
	Resumen(ctx context.Context, actor Actor, q dto.RangoQuery) (*dto.ResumenResponse, error)
	RegistroManual(ctx context.Context, actor Actor, req dto.RegistroManualRequest) (*dto.RegistroResponse, error)
	Equipo(ctx context.Context, actor Actor, fecha string) ([]dto.RegistroResponse, error)
}

type FichajeConfig struct {
	GeofenceRequired bool
}

type fichajeService struct {
	repo        repository.RegistroRepository
	usuarioRepo repository.UsuarioRepository
	centros     CentroProvider
	metrics     *infra.Metrics
	clock       Clock
	cfg         FichajeConfig
}

func NewFichajeService(repo repository.RegistroRepository, usuarioRepo repository.UsuarioRepository, centros CentroProvider, metrics *infra.Metrics, clock Clock, cfg FichajeConfig) FichajeService {
	return &fichajeService{repo: repo, usuarioRepo: usuarioRepo, centros: centros, metrics: metrics, clock: clock, cfg: cfg}
}

func (s *fichajeService) Fichar(ctx context.Context, actor Actor, req dto.FicharRequest) ([]dto.RegistroResponse, error) {
	now := s.clock()
	ultimo, err := s.repo.Ultimo(ctx, actor.NIF)
	if err != nil {
		return nil, fmt.Errorf("ultimo registro: %w", err)
	}
	base, err := s.nuevoRegistro(ctx, actor.NIF, now, req)
	if err != nil {
		return nil, err
	}

	var regs []model.Registro
	switch EstadoDesde(ultimo, now) {
	case EstadoFuera:
		base.Tipo = model.TipoEntrada
		regs = []model.Registro{base}
	case EstadoTrabajando:
		base.Tipo = model.TipoSalida
		regs = []model.Registro{base}
	case EstadoEnPausa:
		fin := base
		fin.Tipo = model.TipoPausaFin
		fin.Observaciones = nil
		base.Tipo = model.TipoSalida
		regs = []model.Registro{fin, base}
	}

	if err := s.repo.CreateMany(ctx, regs); err != nil {
		return nil, fmt.Errorf("guardar fichaje: %w", err)
	}
	resp := make([]dto.RegistroResponse, len(regs))
	for i := range regs {
		s.metrics.IncFichaje(regs[i].Tipo)
		resp[i] = registroToResponse(&regs[i])
	}
	log.Info().Str("nif", actor.NIF).Str("tipo", regs[len(regs)-1].Tipo).Msg("fichaje registrado")
	return resp, nil
}

func (s *fichajeService) IniciarPausa(ctx context.Context, actor Actor, req dto.FicharRequest) (*dto.RegistroResponse, error) {
	return s.pausa(ctx, actor, req, EstadoTrabajando, model.TipoPausaInicio, "no hay una jornada activa para pausar")
}

func (s *fichajeService) FinalizarPausa(ctx context.Context, actor Actor, req dto.FicharRequest) (*dto.RegistroResponse, error) {
	return s.pausa(ctx, actor, req, EstadoEnPausa, model.TipoPausaFin, "no hay ninguna pausa abierta")
}

func (s *fichajeService) pausa(ctx context.Context, actor Actor, req dto.FicharRequest, requerido, tipo, msg string) (*dto.RegistroResponse, error) {
	now := s.clock()
	ultimo, err := s.repo.Ultimo(ctx, actor.NIF)
	if err != nil {
		return nil, fmt.Errorf("ultimo registro: %w", err)
	}
	if EstadoDesde(ultimo, now) != requerido {
		return nil, conflicto("%s", msg)
	}
	reg, err := s.nuevoRegistro(ctx, actor.NIF, now, req)
	if err != nil {
		return nil, err
	}
	reg.Tipo = tipo
	if err := s.repo.Create(ctx, &reg); err != nil {
		return nil, fmt.Errorf("guardar pausa: %w", err)
	}
	s.metrics.IncFichaje(tipo)
	resp := registroToResponse(&reg)
	return &resp, nil
}

// nuevoRegistro fills everything but Tipo, running the geofence check.
func (s *fichajeService) nuevoRegistro(ctx context.Context, nif string, now time.Time, req dto.FicharRequest) (model.Registro, error) {
	reg := model.Registro{
		UsuarioNIF:    nif,
		FechaHora:     now,
		Origen:        req.Origen,
		Observaciones: req.Observaciones,
		PrecisionM:    req.PrecisionM,
	}
	if reg.Origen == "" {
		reg.Origen = "web"
	}

	if req.Latitud == nil || req.Longitud == nil {
		if s.cfg.GeofenceRequired {
			return reg, invalido("se requiere la ubicacion para fichar")
		}
		return reg, nil
	}
	if err := validarCoordenadas(*req.Latitud, *req.Longitud); err != nil {
		return reg, err
	}
	reg.Latitud, reg.Longitud = req.Latitud, req.Longitud

	var centros []model.CentroTrabajo
	if s.centros != nil {
		var err error
		if centros, err = s.centros.Activos(ctx); err != nil {
			return reg, fmt.Errorf("centros de trabajo: %w", err)
		}
	}
	g := CentroMasCercano(centros, *req.Latitud, *req.Longitud)
	if g != nil {
		id, dist, dentro := g.Centro.ID, g.Distancia, g.Dentro
		reg.CentroID, reg.DistanciaM, reg.DentroZona = &id, &dist, &dentro
	}
	if s.cfg.GeofenceRequired && (g == nil || !g.Dentro) {
		return reg, invalido("estas fuera de la zona de cualquier centro de trabajo")
	}
	return reg, nil
}

func (s *fichajeService) Estado(ctx context.Context, nif string) (*dto.EstadoResponse, error) {
	now := s.clock()
	ultimo, err := s.repo.Ultimo(ctx, nif)
	if err != nil {
		return nil, fmt.Errorf("ultimo registro: %w", err)
	}
	hoy := inicioDia(now)
	regs, err := s.repo.ListByUsuarioRango(ctx, nif, hoy.Add(-jornadaMaxima), now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("registros de hoy: %w", err)
	}
	minutos := 0
	fecha := hoy.Format(fechaLayout)
	for _, j := range CalcularJornadas(regs, now) {
		if j.Fecha == fecha || j.Abierta {
			minutos += j.Minutos()
		}
	}
	resp := &dto.EstadoResponse{
		Estado:     EstadoDesde(ultimo, now),
		MinutosHoy: minutos,
		HorasHoy:   Horas(minutos),
	}
	if ultimo != nil {
		r := registroToResponse(ultimo)
		resp.UltimoRegistro = &r
	}
	return resp, nil
}

func (s *fichajeService) Historial(ctx context.Context, actor Actor, q dto.RangoQuery) ([]dto.RegistroResponse, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, q.NIF)
	if err != nil {
		return nil, err
	}
	desde, hasta, err := resolverRango(q.Desde, q.Hasta, s.clock())
	if err != nil {
		return nil, err
	}
	regs, err := s.repo.ListByUsuarioRango(ctx, u.NIF, desde, hasta.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("historial: %w", err)
	}
	resp := make([]dto.RegistroResponse, len(regs))
	for i := range regs {
		resp[i] = registroToResponse(&regs[i])
	}
	return resp, nil
}

func (s *fichajeService) Resumen(ctx context.Context, actor Actor, q dto.RangoQuery) (*dto.ResumenResponse, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, q.NIF)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	desde, hasta, err := resolverRango(q.Desde, q.Hasta, now)
	if err != nil {
		return nil, err
	}
	jornadas, err := jornadasEnRango(ctx, s.repo, u.NIF, desde, hasta, now)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResumenResponse{
		UsuarioNIF: u.NIF,
		Desde:      desde.Format(fechaLayout),
		Hasta:      hasta.Format(fechaLayout),
		Dias:       []dto.ResumenDia{},
	}
	for _, d := range ResumirPorDia(jornadas) {
		resp.Dias = append(resp.Dias, d)
		resp.TotalMinutos += d.MinutosTrabajados
	}
	resp.TotalHoras = Horas(resp.TotalMinutos)
	return resp, nil
}

// jornadasEnRango returns the jornadas whose entrada falls in [desde, hasta].
func jornadasEnRango(ctx context.Context, repo repository.RegistroRepository, nif string, desde, hasta, now time.Time) ([]Jornada, error) {
	fin := hasta.AddDate(0, 0, 1)
	regs, err := repo.ListByUsuarioRango(ctx, nif, desde, fin.Add(jornadaMaxima))
	if err != nil {
		return nil, fmt.Errorf("registros: %w", err)
	}
	ultimo := hasta.Format(fechaLayout)
	var out []Jornada
	for _, j := range CalcularJornadas(regs, now) {
		if j.Fecha <= ultimo {
			out = append(out, j)
		}
	}
	return out, nil
}

// ResumirPorDia merges jornadas that share a date.
func ResumirPorDia(jornadas []Jornada) []dto.ResumenDia {
	var out []dto.ResumenDia
	for _, j := range jornadas {
		n := len(out)
		if n == 0 || out[n-1].Fecha != j.Fecha {
			entrada := j.Entrada
			out = append(out, dto.ResumenDia{Fecha: j.Fecha, Entrada: &entrada, Completo: true})
			n++
		}
		d := &out[n-1]
		d.MinutosTrabajados += j.Minutos()
		d.MinutosPausa += j.MinutosPausa()
		if j.Salida != nil {
			salida := *j.Salida
			d.Salida = &salida
		}
		if j.Incompleta {
			d.Completo = false
		}
	}
	for i := range out {
		out[i].Horas = Horas(out[i].MinutosTrabajados)
	}
	return out
}

func (s *fichajeService) RegistroManual(ctx context.Context, actor Actor, req dto.RegistroManualRequest) (*dto.RegistroResponse, error) {
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores pueden registrar fichajes manuales")
	}
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, req.UsuarioNIF)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	if req.FechaHora.After(now.Add(time.Minute)) {
		return nil, invalido("no se pueden registrar fichajes futuros")
	}
	obs := strings.TrimSpace(req.Observaciones)
	creador := actor.NIF
	reg := model.Registro{
		UsuarioNIF:    u.NIF,
		Tipo:          req.Tipo,
		FechaHora:     req.FechaHora.In(now.Location()),
		Origen:        "manual",
		Observaciones: &obs,
		CreadoPor:     &creador,
	}
	if err := s.repo.Create(ctx, &reg); err != nil {
		return nil, fmt.Errorf("registro manual: %w", err)
	}
	s.metrics.IncFichaje(reg.Tipo)
	log.Info().Str("nif", u.NIF).Str("por", actor.NIF).Str("tipo", reg.Tipo).Msg("fichaje manual registrado")
	resp := registroToResponse(&reg)
	return &resp, nil
}

func (s *fichajeService) Equipo(ctx context.Context, actor Actor, fecha string) ([]dto.RegistroResponse, error) {
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores pueden ver el equipo")
	}
	now := s.clock()
	dia := inicioDia(now)
	if fecha != "" {
		var err error
		if dia, err = parseFecha(fecha, now.Location()); err != nil {
			return nil, err
		}
	}
	rows, err := s.repo.ListEquipo(ctx, dia, dia.AddDate(0, 0, 1), departamentoDe(actor))
	if err != nil {
		return nil, fmt.Errorf("registros del equipo: %w", err)
	}
	resp := make([]dto.RegistroResponse, len(rows))
	for i := range rows {
		resp[i] = registroToResponse(&rows[i].Registro)
		resp[i].Nombre = model.Usuario{Nombre: rows[i].Nombre, Apellidos: rows[i].Apellidos}.NombreCompleto()
	}
	return resp, nil
}

// resolverRango parses an inclusive date range. Defaults: first day of the
// current month through today.
func resolverRango(desdeStr, hastaStr string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	hoy := inicioDia(now)
	desde := time.Date(hoy.Year(), hoy.Month(), 1, 0, 0, 0, 0, loc)
	hasta := hoy
	var err error
	if desdeStr != "" {
		if desde, err = parseFecha(desdeStr, loc); err != nil {
			return desde, hasta, err
		}
	}
	if hastaStr != "" {
		if hasta, err = parseFecha(hastaStr, loc); err != nil {
			return desde, hasta, err
		}
	}
	if hasta.Before(desde) {
		return desde, hasta, invalido("el rango de fechas es invalido (hasta < desde)")
	}
	if hasta.Sub(desde) > maxDiasRango*24*time.Hour {
		return desde, hasta, invalido("el rango no puede superar %d dias", maxDiasRango)
	}
	return desde, hasta, nil
}

func registroToResponse(r *model.Registro) dto.RegistroResponse {
	resp := dto.RegistroResponse{
		ID:            r.ID.String(),
		UsuarioNIF:    r.UsuarioNIF,
		Tipo:          r.Tipo,
		FechaHora:     r.FechaHora,
		Latitud:       r.Latitud,
		Longitud:      r.Longitud,
		DistanciaM:    r.DistanciaM,
		DentroZona:    r.DentroZona,
		Origen:        r.Origen,
		Observaciones: r.Observaciones,
	}
	if r.CentroID != nil {
		id := r.CentroID.String()
		resp.CentroID = &id
	}
	return resp
}
