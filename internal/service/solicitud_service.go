package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/google/uuid"
)

// Absence requests. An approved solicitud marks its days as non-working in the
// calendar and suppresses clock reminders.
type SolicitudService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error)
	Listar(ctx context.Context, actor Actor, f dto.SolicitudFilter) ([]dto.SolicitudResponse, error)
	Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SolicitudResponse, error)
	Cancelar(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SolicitudResponse, error)
	Revisar(ctx context.Context, actor Actor, id uuid.UUID, req dto.RevisarSolicitudRequest) (*dto.SolicitudResponse, error)
}

type solicitudService struct {
	repo        repository.SolicitudRepository
	usuarioRepo repository.UsuarioRepository
	emails      EmailQueue
	clock       Clock
}

func NewSolicitudService(repo repository.SolicitudRepository, usuarioRepo repository.UsuarioRepository, emails EmailQueue, clock Clock) SolicitudService {
	return &solicitudService{repo: repo, usuarioRepo: usuarioRepo, emails: emails, clock: clock}
}

func (s *solicitudService) Crear(ctx context.Context, actor Actor, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	if req.FechaFin < req.FechaInicio {
		return nil, invalido("fecha_fin no puede ser anterior a fecha_inicio")
	}
	if d := DiasSolicitud(req.FechaInicio, req.FechaFin); d > maxDiasRango {
		return nil, invalido("una solicitud no puede superar %d dias", maxDiasRango)
	}
	solapadas, err := s.repo.Solapadas(ctx, actor.NIF, req.FechaInicio, req.FechaFin)
	if err != nil {
		return nil, fmt.Errorf("comprobar solapamiento: %w", err)
	}
	if len(solapadas) > 0 {
		o := solapadas[0]
		return nil, conflicto("se solapa con la solicitud %s del %s al %s (%s)", o.Tipo, o.FechaInicio, o.FechaFin, o.Estado)
	}
	sol := &model.Solicitud{
		UsuarioNIF:  actor.NIF,
		Tipo:        req.Tipo,
		FechaInicio: req.FechaInicio,
		FechaFin:    req.FechaFin,
		Motivo:      req.Motivo,
		Estado:      model.SolicitudPendiente,
	}
	if err := s.repo.Create(ctx, sol); err != nil {
		return nil, fmt.Errorf("crear solicitud: %w", err)
	}
	resp := solicitudToResponse(sol)
	return &resp, nil
}

func (s *solicitudService) Listar(ctx context.Context, actor Actor, f dto.SolicitudFilter) ([]dto.SolicitudResponse, error) {
	filtro := repository.SolicitudFiltro{Estado: f.Estado}
	switch {
	case !actor.EsSupervisor():
		filtro.NIF = actor.NIF
	case f.NIF != "":
		u, err := usuarioVisible(ctx, s.usuarioRepo, actor, f.NIF)
		if err != nil {
			return nil, err
		}
		filtro.NIF = u.NIF
	default:
		filtro.Departamento = departamentoDe(actor)
	}
	ss, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	resp := make([]dto.SolicitudResponse, len(ss))
	for i := range ss {
		resp[i] = solicitudToResponse(&ss[i])
	}
	return resp, nil
}

// cargar returns the solicitud and its owner, hiding it when the actor may
// not see the owner.
func (s *solicitudService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Solicitud, *model.Usuario, error) {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "solicitud", "buscar solicitud")
	}
	u, err := s.usuarioRepo.FindByNIF(ctx, sol.UsuarioNIF)
	if err != nil {
		return nil, nil, notFoundOr(err, "usuario", "buscar usuario")
	}
	if !actor.PuedeVer(u.NIF, u.Departamento) {
		return nil, nil, noEncontrado("solicitud no encontrada")
	}
	return sol, u, nil
}

func (s *solicitudService) Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SolicitudResponse, error) {
	sol, _, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := solicitudToResponse(sol)
	return &resp, nil
}

func (s *solicitudService) Cancelar(ctx context.Context, actor Actor, id uuid.UUID) (*dto.SolicitudResponse, error) {
	sol, _, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sol.UsuarioNIF != actor.NIF {
		return nil, sinPermiso("solo el solicitante puede cancelar la solicitud")
	}
	if sol.Estado != model.SolicitudPendiente {
		return nil, conflicto("solo se pueden cancelar solicitudes pendientes (estado actual: %s)", sol.Estado)
	}
	sol.Estado = model.SolicitudCancelada
	if err := s.repo.Update(ctx, sol); err != nil {
		return nil, fmt.Errorf("cancelar solicitud: %w", err)
	}
	resp := solicitudToResponse(sol)
	return &resp, nil
}

func (s *solicitudService) Revisar(ctx context.Context, actor Actor, id uuid.UUID, req dto.RevisarSolicitudRequest) (*dto.SolicitudResponse, error) {
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores revisan solicitudes")
	}
	sol, u, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sol.UsuarioNIF == actor.NIF && !actor.EsAdmin() {
		return nil, sinPermiso("no puedes revisar tus propias solicitudes")
	}
	if sol.Estado != model.SolicitudPendiente {
		return nil, conflicto("la solicitud ya esta %s", sol.Estado)
	}

	if req.Aprobar {
		// Another request may have been approved for the same days meanwhile.
		solapadas, err := s.repo.AprobadasEnRango(ctx, sol.UsuarioNIF, sol.FechaInicio, sol.FechaFin)
		if err != nil {
			return nil, fmt.Errorf("comprobar solapamiento: %w", err)
		}
		if len(solapadas) > 0 {
			return nil, conflicto("ya existe una ausencia aprobada en esas fechas")
		}
		sol.Estado = model.SolicitudAprobada
	} else {
		sol.Estado = model.SolicitudRechazada
	}
	now := s.clock()
	por := actor.NIF
	sol.RevisadaAt, sol.RevisadaPor = &now, &por
	if req.Comentario != nil {
		c := strings.TrimSpace(*req.Comentario)
		sol.Comentario = &c
	}
	if err := s.repo.Update(ctx, sol); err != nil {
		return nil, fmt.Errorf("revisar solicitud: %w", err)
	}

	comentario := ""
	if sol.Comentario != nil {
		comentario = *sol.Comentario
	}
	notificar(ctx, s.emails, plantillaSolicitudRevisada, u.Email, "solicitud:"+sol.ID.String(), map[string]string{
		"Nombre":     u.Nombre,
		"Tipo":       strings.ReplaceAll(sol.Tipo, "_", " "),
		"Desde":      sol.FechaInicio,
		"Hasta":      sol.FechaFin,
		"Estado":     sol.Estado,
		"Comentario": comentario,
	})
	resp := solicitudToResponse(sol)
	return &resp, nil
}

// DiasSolicitud counts calendar days in [desde, hasta]; 0 on malformed input.
func DiasSolicitud(desde, hasta string) int {
	d, err1 := time.Parse(fechaLayout, desde)
	h, err2 := time.Parse(fechaLayout, hasta)
	if err1 != nil || err2 != nil || h.Before(d) {
		return 0
	}
	return int(h.Sub(d)/(24*time.Hour)) + 1
}

func solicitudToResponse(s *model.Solicitud) dto.SolicitudResponse {
	return dto.SolicitudResponse{
		ID:          s.ID.String(),
		UsuarioNIF:  s.UsuarioNIF,
		Tipo:        s.Tipo,
		FechaInicio: s.FechaInicio,
		FechaFin:    s.FechaFin,
		Dias:        DiasSolicitud(s.FechaInicio, s.FechaFin),
		Motivo:      s.Motivo,
		Estado:      s.Estado,
		RevisadaPor: s.RevisadaPor,
		Comentario:  s.Comentario,
		RevisadaAt:  s.RevisadaAt,
		CreatedAt:   s.CreatedAt,
	}
}
