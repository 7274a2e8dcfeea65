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

// Visible applies the calendar visibility rules: personal events only to
// their creator, departamento events to that department, global to all.
// Administradores see everything.
func Visible(actor Actor, e *model.Evento) bool {
	if actor.EsAdmin() || e.CreadorNIF == actor.NIF {
		return true
	}
	switch e.Visibilidad {
	case model.VisibilidadGlobal:
		return true
	case model.VisibilidadDepartamento:
		return e.Departamento != nil && *e.Departamento != "" && *e.Departamento == actor.Departamento
	default:
		return false
	}
}

// PuedeEditar: only the creator or an administrador.
func PuedeEditar(actor Actor, e *model.Evento) bool {
	return actor.EsAdmin() || e.CreadorNIF == actor.NIF
}

type EventoService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearEventoRequest) (*dto.EventoResponse, error)
	Listar(ctx context.Context, actor Actor, f dto.EventoFilter) ([]dto.EventoResponse, error)
	Proximos(ctx context.Context, actor Actor, limit int) ([]dto.EventoResponse, error)
	Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.EventoResponse, error)
	Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error
}

type eventoService struct {
	repo  repository.EventoRepository
	clock Clock
}

func NewEventoService(repo repository.EventoRepository, clock Clock) EventoService {
	return &eventoService{repo: repo, clock: clock}
}

func (s *eventoService) Crear(ctx context.Context, actor Actor, req dto.CrearEventoRequest) (*dto.EventoResponse, error) {
	e := &model.Evento{
		Titulo:       strings.TrimSpace(req.Titulo),
		Descripcion:  req.Descripcion,
		Inicio:       req.Inicio,
		Fin:          req.Fin,
		TodoElDia:    req.TodoElDia,
		Visibilidad:  req.Visibilidad,
		Departamento: req.Departamento,
		CreadorNIF:   actor.NIF,
		Color:        req.Color,
	}
	if err := s.validar(actor, e); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("crear evento: %w", err)
	}
	resp := eventoToResponse(actor, e)
	return &resp, nil
}

// validar checks dates and whether actor may publish with e's visibility.
// It normalizes Departamento as a side effect.
func (s *eventoService) validar(actor Actor, e *model.Evento) error {
	if e.Fin.Before(e.Inicio) {
		return invalido("la fecha de fin no puede ser anterior al inicio")
	}
	switch e.Visibilidad {
	case model.VisibilidadPersonal:
		e.Departamento = nil
	case model.VisibilidadGlobal:
		if !actor.EsSupervisor() {
			return sinPermiso("solo supervisores y administradores pueden crear eventos globales")
		}
		e.Departamento = nil
	case model.VisibilidadDepartamento:
		if !actor.EsSupervisor() {
			return sinPermiso("solo supervisores y administradores pueden crear eventos de departamento")
		}
		if e.Departamento == nil || strings.TrimSpace(*e.Departamento) == "" {
			dep := actor.Departamento
			e.Departamento = &dep
		}
		dep := strings.TrimSpace(*e.Departamento)
		e.Departamento = &dep
		if dep == "" {
			return invalido("falta el departamento del evento")
		}
		if !actor.EsAdmin() && dep != actor.Departamento {
			return sinPermiso("solo puedes publicar eventos para tu departamento")
		}
	default:
		return invalido("visibilidad %q invalida", e.Visibilidad)
	}
	return nil
}

func (s *eventoService) Listar(ctx context.Context, actor Actor, f dto.EventoFilter) ([]dto.EventoResponse, error) {
	now := s.clock()
	hastaStr := f.Hasta
	if hastaStr == "" {
		// One month from desde (or from the start of the current month).
		inicio, _, err := resolverRango(f.Desde, f.Desde, now)
		if err != nil {
			return nil, err
		}
		hastaStr = inicio.AddDate(0, 1, -1).Format(fechaLayout)
	}
	desde, hasta, err := resolverRango(f.Desde, hastaStr, now)
	if err != nil {
		return nil, err
	}
	return s.listar(ctx, actor, desde, hasta.AddDate(0, 0, 1), 0)
}

func (s *eventoService) Proximos(ctx context.Context, actor Actor, limit int) ([]dto.EventoResponse, error) {
	now := s.clock()
	return s.listar(ctx, actor, now, now.AddDate(0, 0, 30), limit)
}

func (s *eventoService) listar(ctx context.Context, actor Actor, desde, hasta time.Time, limit int) ([]dto.EventoResponse, error) {
	es, err := s.repo.ListVisibles(ctx, repository.EventoFiltro{
		Desde:        desde,
		Hasta:        hasta,
		NIF:          actor.NIF,
		Departamento: actor.Departamento,
		Todos:        actor.EsAdmin(),
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listar eventos: %w", err)
	}
	resp := make([]dto.EventoResponse, 0, len(es))
	for i := range es {
		if Visible(actor, &es[i]) {
			resp = append(resp, eventoToResponse(actor, &es[i]))
		}
	}
	return resp, nil
}

func (s *eventoService) Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.EventoResponse, error) {
	e, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := eventoToResponse(actor, e)
	return &resp, nil
}

// cargar hides events the actor cannot see behind a not-found error.
func (s *eventoService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Evento, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "evento", "buscar evento")
	}
	if !Visible(actor, e) {
		return nil, noEncontrado("evento no encontrado")
	}
	return e, nil
}

func (s *eventoService) Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error) {
	e, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !PuedeEditar(actor, e) {
		return nil, sinPermiso("solo el creador o un administrador puede modificar el evento")
	}
	if req.Titulo != nil {
		e.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Descripcion != nil {
		e.Descripcion = req.Descripcion
	}
	if req.Inicio != nil {
		e.Inicio = *req.Inicio
	}
	if req.Fin != nil {
		e.Fin = *req.Fin
	}
	setBool(&e.TodoElDia, req.TodoElDia)
	if req.Visibilidad != nil {
		e.Visibilidad = *req.Visibilidad
	}
	if req.Departamento != nil {
		e.Departamento = req.Departamento
	}
	if req.Color != nil {
		e.Color = req.Color
	}
	if err := s.validar(actor, e); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("actualizar evento: %w", err)
	}
	resp := eventoToResponse(actor, e)
	return &resp, nil
}

func (s *eventoService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	e, err := s.cargar(ctx, actor, id)
	if err != nil {
		return err
	}
	if !PuedeEditar(actor, e) {
		return sinPermiso("solo el creador o un administrador puede eliminar el evento")
	}
	return s.repo.Delete(ctx, id)
}

func eventoToResponse(actor Actor, e *model.Evento) dto.EventoResponse {
	return dto.EventoResponse{
		ID:           e.ID.String(),
		Titulo:       e.Titulo,
		Descripcion:  e.Descripcion,
		Inicio:       e.Inicio,
		Fin:          e.Fin,
		TodoElDia:    e.TodoElDia,
		Visibilidad:  e.Visibilidad,
		Departamento: e.Departamento,
		CreadorNIF:   e.CreadorNIF,
		Color:        e.Color,
		Editable:     PuedeEditar(actor, e),
	}
}
