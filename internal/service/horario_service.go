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

	"github.com/google/uuid"
)

type HorarioService interface {
	CrearHorario(ctx context.Context, req dto.CrearHorarioRequest) (*dto.HorarioResponse, error)
	ListarHorarios(ctx context.Context, incluirInactivos bool) ([]dto.HorarioResponse, error)
	ObtenerHorario(ctx context.Context, id uuid.UUID) (*dto.HorarioResponse, error)
	ActualizarHorario(ctx context.Context, id uuid.UUID, req dto.ActualizarHorarioRequest) (*dto.HorarioResponse, error)
	EliminarHorario(ctx context.Context, id uuid.UUID) error

	CrearTurno(ctx context.Context, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error)
	ListarTurnos(ctx context.Context, actor Actor, nif string) ([]dto.TurnoResponse, error)
	ActualizarTurno(ctx context.Context, id uuid.UUID, req dto.ActualizarTurnoRequest) (*dto.TurnoResponse, error)
	EliminarTurno(ctx context.Context, id uuid.UUID) error

	HorarioEfectivo(ctx context.Context, actor Actor, nif, fecha string) (*dto.DiaCalendario, error)
	// Calendario resolves every day of mes ("YYYY-MM").
	Calendario(ctx context.Context, actor Actor, nif, mes string) (*dto.CalendarioResponse, error)
}

type horarioService struct {
	repo          repository.HorarioRepository
	turnoRepo     repository.TurnoRepository
	usuarioRepo   repository.UsuarioRepository
	solicitudRepo repository.SolicitudRepository
	festivos      *infra.Festivos
	clock         Clock
}

func NewHorarioService(repo repository.HorarioRepository, turnoRepo repository.TurnoRepository, usuarioRepo repository.UsuarioRepository, solicitudRepo repository.SolicitudRepository, festivos *infra.Festivos, clock Clock) HorarioService {
	return &horarioService{repo: repo, turnoRepo: turnoRepo, usuarioRepo: usuarioRepo, solicitudRepo: solicitudRepo, festivos: festivos, clock: clock}
}

// ── Horarios ─────────────────────────────────────────────────────────────────

func (s *horarioService) CrearHorario(ctx context.Context, req dto.CrearHorarioRequest) (*dto.HorarioResponse, error) {
	h := &model.Horario{
		Nombre:         strings.TrimSpace(req.Nombre),
		Lunes:          req.Lunes,
		Martes:         req.Martes,
		Miercoles:      req.Miercoles,
		Jueves:         req.Jueves,
		Viernes:        req.Viernes,
		Sabado:         req.Sabado,
		Domingo:        req.Domingo,
		HoraEntrada:    req.HoraEntrada,
		HoraSalida:     req.HoraSalida,
		TiempoPausaMin: req.TiempoPausaMin,
		Activo:         true,
	}
	if err := validarHorario(h); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, duplicateOr(err, "ya existe un horario con ese nombre", "crear horario")
	}
	resp := horarioToResponse(h)
	return &resp, nil
}

func (s *horarioService) ListarHorarios(ctx context.Context, incluirInactivos bool) ([]dto.HorarioResponse, error) {
	hs, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, fmt.Errorf("listar horarios: %w", err)
	}
	resp := make([]dto.HorarioResponse, len(hs))
	for i := range hs {
		resp[i] = horarioToResponse(&hs[i])
	}
	return resp, nil
}

func (s *horarioService) ObtenerHorario(ctx context.Context, id uuid.UUID) (*dto.HorarioResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "horario", "buscar horario")
	}
	resp := horarioToResponse(h)
	return &resp, nil
}

func (s *horarioService) ActualizarHorario(ctx context.Context, id uuid.UUID, req dto.ActualizarHorarioRequest) (*dto.HorarioResponse, error) {
	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "horario", "buscar horario")
	}
	if req.Nombre != nil {
		h.Nombre = strings.TrimSpace(*req.Nombre)
	}
	setBool(&h.Lunes, req.Lunes)
	setBool(&h.Martes, req.Martes)
	setBool(&h.Miercoles, req.Miercoles)
	setBool(&h.Jueves, req.Jueves)
	setBool(&h.Viernes, req.Viernes)
	setBool(&h.Sabado, req.Sabado)
	setBool(&h.Domingo, req.Domingo)
	setBool(&h.Activo, req.Activo)
	if req.HoraEntrada != nil {
		h.HoraEntrada = *req.HoraEntrada
	}
	if req.HoraSalida != nil {
		h.HoraSalida = *req.HoraSalida
	}
	if req.TiempoPausaMin != nil {
		h.TiempoPausaMin = *req.TiempoPausaMin
	}
	if err := validarHorario(h); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, h); err != nil {
		return nil, duplicateOr(err, "ya existe un horario con ese nombre", "actualizar horario")
	}
	resp := horarioToResponse(h)
	return &resp, nil
}

func (s *horarioService) EliminarHorario(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "horario", "buscar horario")
	}
	n, err := s.repo.EnUso(ctx, id)
	if err != nil {
		return fmt.Errorf("comprobar uso del horario: %w", err)
	}
	if n > 0 {
		return conflicto("el horario esta asignado (%d referencias); desactivalo en su lugar", n)
	}
	return s.repo.Delete(ctx, id)
}

func validarHorario(h *model.Horario) error {
	if _, _, err := model.ParseHora(h.HoraEntrada); err != nil {
		return invalido("%s", err.Error())
	}
	if _, _, err := model.ParseHora(h.HoraSalida); err != nil {
		return invalido("%s", err.Error())
	}
	if h.HoraEntrada == h.HoraSalida {
		return invalido("la hora de salida debe ser distinta de la de entrada")
	}
	if h.Duracion() <= 0 {
		return invalido("la pausa no puede ocupar toda la jornada")
	}
	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ── Turnos ───────────────────────────────────────────────────────────────────

func (s *horarioService) CrearTurno(ctx context.Context, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error) {
	u, err := s.usuarioRepo.FindByNIF(ctx, NormalizarNIF(req.UsuarioNIF))
	if err != nil {
		return nil, notFoundOr(err, "usuario", "buscar usuario")
	}
	h, err := s.horarioActivo(ctx, req.HorarioID)
	if err != nil {
		return nil, err
	}
	t := &model.Turno{
		UsuarioNIF:  u.NIF,
		HorarioID:   h.ID,
		Semanas:     req.Semanas,
		Dias:        req.Dias,
		FechaInicio: vacioANil(req.FechaInicio),
		FechaFin:    vacioANil(req.FechaFin),
		Prioridad:   req.Prioridad,
	}
	if err := validarTurno(t); err != nil {
		return nil, err
	}
	if err := s.turnoRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("crear turno: %w", err)
	}
	t.Horario = h
	resp := turnoToResponse(t)
	return &resp, nil
}

func (s *horarioService) ListarTurnos(ctx context.Context, actor Actor, nif string) ([]dto.TurnoResponse, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, nif)
	if err != nil {
		return nil, err
	}
	ts, err := s.turnoRepo.ListByUsuario(ctx, u.NIF)
	if err != nil {
		return nil, fmt.Errorf("listar turnos: %w", err)
	}
	resp := make([]dto.TurnoResponse, len(ts))
	for i := range ts {
		resp[i] = turnoToResponse(&ts[i])
	}
	return resp, nil
}

func (s *horarioService) ActualizarTurno(ctx context.Context, id uuid.UUID, req dto.ActualizarTurnoRequest) (*dto.TurnoResponse, error) {
	t, err := s.turnoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "turno", "buscar turno")
	}
	if req.HorarioID != nil {
		h, err := s.horarioActivo(ctx, *req.HorarioID)
		if err != nil {
			return nil, err
		}
		t.HorarioID, t.Horario = h.ID, h
	}
	if req.Semanas != nil {
		t.Semanas = *req.Semanas
	}
	if req.Dias != nil {
		t.Dias = *req.Dias
	}
	if req.FechaInicio != nil {
		t.FechaInicio = vacioANil(req.FechaInicio)
	}
	if req.FechaFin != nil {
		t.FechaFin = vacioANil(req.FechaFin)
	}
	if req.Prioridad != nil {
		t.Prioridad = *req.Prioridad
	}
	if err := validarTurno(t); err != nil {
		return nil, err
	}
	if err := s.turnoRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("actualizar turno: %w", err)
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

func (s *horarioService) EliminarTurno(ctx context.Context, id uuid.UUID) error {
	if err := s.turnoRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "turno", "eliminar turno")
	}
	return nil
}

func (s *horarioService) horarioActivo(ctx context.Context, id string) (*model.Horario, error) {
	hid, err := uuid.Parse(id)
	if err != nil {
		return nil, invalido("horario_id invalido")
	}
	h, err := s.repo.FindByID(ctx, hid)
	if err != nil {
		return nil, notFoundOr(err, "horario", "buscar horario")
	}
	if !h.Activo {
		return nil, invalido("el horario %q esta desactivado", h.Nombre)
	}
	return h, nil
}

// ValidarBits reports whether s is exactly n characters of '0'/'1'.
func ValidarBits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c != '0' && c != '1' {
			return false
		}
	}
	return true
}

func validarTurno(t *model.Turno) error {
	if !ValidarBits(t.Semanas, 5) {
		return invalido("semanas debe tener 5 posiciones 0/1")
	}
	if !ValidarBits(t.Dias, 7) {
		return invalido("dias debe tener 7 posiciones 0/1 (lunes primero)")
	}
	if !strings.Contains(t.Semanas, "1") || !strings.Contains(t.Dias, "1") {
		return invalido("el turno no cubre ningun dia")
	}
	if t.FechaInicio != nil && t.FechaFin != nil && *t.FechaFin < *t.FechaInicio {
		return invalido("fecha_fin anterior a fecha_inicio")
	}
	return nil
}

func vacioANil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// ── Horario efectivo y calendario ────────────────────────────────────────────

func (s *horarioService) HorarioEfectivo(ctx context.Context, actor Actor, nif, fecha string) (*dto.DiaCalendario, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, nif)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	dia := inicioDia(now)
	if fecha != "" {
		if dia, err = parseFecha(fecha, now.Location()); err != nil {
			return nil, err
		}
	}
	planes, err := planificarRango(ctx, s.turnoRepo, s.solicitudRepo, s.festivos, u, dia, dia)
	if err != nil {
		return nil, err
	}
	d := planes[0].toDTO()
	return &d, nil
}

func (s *horarioService) Calendario(ctx context.Context, actor Actor, nif, mes string) (*dto.CalendarioResponse, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, nif)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	desde, err := parseMes(mes, now)
	if err != nil {
		return nil, err
	}
	hasta := desde.AddDate(0, 1, -1)
	planes, err := planificarRango(ctx, s.turnoRepo, s.solicitudRepo, s.festivos, u, desde, hasta)
	if err != nil {
		return nil, err
	}
	resp := &dto.CalendarioResponse{UsuarioNIF: u.NIF, Mes: desde.Format("2006-01"), Dias: make([]dto.DiaCalendario, len(planes))}
	for i, p := range planes {
		resp.Dias[i] = p.toDTO()
	}
	return resp, nil
}

// planificarRango resolves [desde, hasta] inclusive for u.
func planificarRango(ctx context.Context, turnoRepo repository.TurnoRepository, solicitudRepo repository.SolicitudRepository, festivos *infra.Festivos, u *model.Usuario, desde, hasta time.Time) ([]DiaPlan, error) {
	turnos, err := turnoRepo.ListByUsuario(ctx, u.NIF)
	if err != nil {
		return nil, fmt.Errorf("turnos: %w", err)
	}
	solicitudes, err := solicitudRepo.AprobadasEnRango(ctx, u.NIF, desde.Format(fechaLayout), hasta.Format(fechaLayout))
	if err != nil {
		return nil, fmt.Errorf("solicitudes: %w", err)
	}
	var out []DiaPlan
	for d := desde; !d.After(hasta); d = d.AddDate(0, 0, 1) {
		out = append(out, Planificar(u, turnos, festivos, solicitudes, d))
	}
	return out, nil
}

// parseMes parses "YYYY-MM" into the first day of the month; empty means
// the current month.
func parseMes(mes string, now time.Time) (time.Time, error) {
	if mes == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", mes, now.Location())
	if err != nil {
		return time.Time{}, invalido("mes %q invalido (YYYY-MM)", mes)
	}
	return t, nil
}

func horarioToResponse(h *model.Horario) dto.HorarioResponse {
	return dto.HorarioResponse{
		ID:             h.ID.String(),
		Nombre:         h.Nombre,
		Lunes:          h.Lunes,
		Martes:         h.Martes,
		Miercoles:      h.Miercoles,
		Jueves:         h.Jueves,
		Viernes:        h.Viernes,
		Sabado:         h.Sabado,
		Domingo:        h.Domingo,
		HoraEntrada:    h.HoraEntrada,
		HoraSalida:     h.HoraSalida,
		TiempoPausaMin: h.TiempoPausaMin,
		MinutosJornada: int(h.Duracion() / time.Minute),
		Activo:         h.Activo,
	}
}

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	resp := dto.TurnoResponse{
		ID:          t.ID.String(),
		UsuarioNIF:  t.UsuarioNIF,
		HorarioID:   t.HorarioID.String(),
		Semanas:     t.Semanas,
		Dias:        t.Dias,
		FechaInicio: t.FechaInicio,
		FechaFin:    t.FechaFin,
		Prioridad:   t.Prioridad,
	}
	if t.Horario != nil {
		h := horarioToResponse(t.Horario)
		resp.Horario = &h
	}
	return resp
}
