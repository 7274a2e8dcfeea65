package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/google/uuid"
)

type TareaService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearTareaRequest) (*dto.TareaResponse, error)
	Listar(ctx context.Context, actor Actor, f dto.TareaFilter) ([]dto.TareaResponse, error)
	Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarTareaRequest) (*dto.TareaResponse, error)
	CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, estado string) (*dto.TareaResponse, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error
	ContarPendientes(ctx context.Context, nif string) (int64, error)
}

type tareaService struct {
	repo        repository.TareaRepository
	usuarioRepo repository.UsuarioRepository
	emails      EmailQueue
	clock       Clock
}

func NewTareaService(repo repository.TareaRepository, usuarioRepo repository.UsuarioRepository, emails EmailQueue, clock Clock) TareaService {
	return &tareaService{repo: repo, usuarioRepo: usuarioRepo, emails: emails, clock: clock}
}

func (s *tareaService) Crear(ctx context.Context, actor Actor, req dto.CrearTareaRequest) (*dto.TareaResponse, error) {
	t := &model.Tarea{
		Titulo:      strings.TrimSpace(req.Titulo),
		Descripcion: req.Descripcion,
		CreadorNIF:  actor.NIF,
		AsignadoNIF: actor.NIF,
		Prioridad:   req.Prioridad,
		Estado:      model.TareaPendiente,
		FechaLimite: vacioANil(req.FechaLimite),
	}
	if t.Prioridad == "" {
		t.Prioridad = "media"
	}
	asignado, err := s.asignable(ctx, actor, req.AsignadoNIF)
	if err != nil {
		return nil, err
	}
	if asignado != nil {
		t.AsignadoNIF = asignado.NIF
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("crear tarea: %w", err)
	}
	s.avisarAsignacion(ctx, actor, t, asignado)
	resp := s.toResponse(t)
	return &resp, nil
}

// asignable resolves the assignee. Assigning to somebody else requires a
// supervisor (own department) or an administrador. Returns nil for self.
func (s *tareaService) asignable(ctx context.Context, actor Actor, nif string) (*model.Usuario, error) {
	nif = NormalizarNIF(nif)
	if nif == "" || nif == actor.NIF {
		return nil, nil
	}
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores pueden asignar tareas a otros")
	}
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, nif)
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, invalido("el usuario %s esta desactivado", nif)
	}
	return u, nil
}

func (s *tareaService) avisarAsignacion(ctx context.Context, actor Actor, t *model.Tarea, asignado *model.Usuario) {
	if asignado == nil {
		return
	}
	creador := actor.NIF
	if u, err := s.usuarioRepo.FindByNIF(ctx, actor.NIF); err == nil {
		creador = u.NombreCompleto()
	}
	limite := ""
	if t.FechaLimite != nil {
		limite = *t.FechaLimite
	}
	notificar(ctx, s.emails, plantillaTareaAsignada, asignado.Email, "tarea:"+t.ID.String(), map[string]string{
		"Nombre":      asignado.Nombre,
		"Creador":     creador,
		"Titulo":      t.Titulo,
		"Prioridad":   t.Prioridad,
		"FechaLimite": limite,
	})
}

func (s *tareaService) Listar(ctx context.Context, actor Actor, f dto.TareaFilter) ([]dto.TareaResponse, error) {
	ts, err := s.repo.List(ctx, repository.TareaFiltro{NIF: actor.NIF, Ambito: f.Ambito, Estado: f.Estado})
	if err != nil {
		return nil, fmt.Errorf("listar tareas: %w", err)
	}
	resp := make([]dto.TareaResponse, len(ts))
	for i := range ts {
		resp[i] = s.toResponse(&ts[i])
	}
	return resp, nil
}

func (s *tareaService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Tarea, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "tarea", "buscar tarea")
	}
	if !actor.EsAdmin() && t.CreadorNIF != actor.NIF && t.AsignadoNIF != actor.NIF {
		return nil, noEncontrado("tarea no encontrada")
	}
	return t, nil
}

func (s *tareaService) Actualizar(ctx context.Context, actor Actor, id uuid.UUID, req dto.ActualizarTareaRequest) (*dto.TareaResponse, error) {
	t, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.EsAdmin() && t.CreadorNIF != actor.NIF {
		return nil, sinPermiso("solo el creador puede editar la tarea")
	}
	if req.Titulo != nil {
		t.Titulo = strings.TrimSpace(*req.Titulo)
	}
	if req.Descripcion != nil {
		t.Descripcion = req.Descripcion
	}
	if req.Prioridad != nil {
		t.Prioridad = *req.Prioridad
	}
	if req.FechaLimite != nil {
		t.FechaLimite = vacioANil(req.FechaLimite)
	}
	var nuevo *model.Usuario
	if req.AsignadoNIF != nil && NormalizarNIF(*req.AsignadoNIF) != t.AsignadoNIF {
		if nuevo, err = s.asignable(ctx, actor, *req.AsignadoNIF); err != nil {
			return nil, err
		}
		t.AsignadoNIF = actor.NIF
		if nuevo != nil {
			t.AsignadoNIF = nuevo.NIF
		}
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("actualizar tarea: %w", err)
	}
	s.avisarAsignacion(ctx, actor, t, nuevo)
	resp := s.toResponse(t)
	return &resp, nil
}

func (s *tareaService) CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, estado string) (*dto.TareaResponse, error) {
	t, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch estado {
	case model.TareaPendiente, model.TareaEnProgreso, model.TareaCompletada:
	default:
		return nil, invalido("estado %q invalido", estado)
	}
	if estado == t.Estado {
		resp := s.toResponse(t)
		return &resp, nil
	}
	t.Estado = estado
	if estado == model.TareaCompletada {
		now := s.clock()
		t.CompletadaAt = &now
	} else {
		t.CompletadaAt = nil
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("actualizar tarea: %w", err)
	}
	resp := s.toResponse(t)
	return &resp, nil
}

func (s *tareaService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	t, err := s.cargar(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.EsAdmin() && t.CreadorNIF != actor.NIF {
		return sinPermiso("solo el creador o un administrador puede eliminar la tarea")
	}
	return s.repo.Delete(ctx, id)
}

func (s *tareaService) ContarPendientes(ctx context.Context, nif string) (int64, error) {
	return s.repo.CountPendientes(ctx, nif)
}

func (s *tareaService) toResponse(t *model.Tarea) dto.TareaResponse {
	resp := dto.TareaResponse{
		ID:           t.ID.String(),
		Titulo:       t.Titulo,
		Descripcion:  t.Descripcion,
		CreadorNIF:   t.CreadorNIF,
		AsignadoNIF:  t.AsignadoNIF,
		Prioridad:    t.Prioridad,
		Estado:       t.Estado,
		FechaLimite:  t.FechaLimite,
		CompletadaAt: t.CompletadaAt,
		CreatedAt:    t.CreatedAt,
	}
	if t.FechaLimite != nil && t.Estado != model.TareaCompletada {
		resp.Vencida = *t.FechaLimite < s.clock().Format(fechaLayout)
	}
	return resp
}
