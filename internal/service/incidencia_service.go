package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/google/uuid"
)

// transicionesIncidencia lists the allowed estado changes. Terminal states
// have no entry.
var transicionesIncidencia = map[string][]string{
	model.IncidenciaPendiente:  {model.IncidenciaEnRevision, model.IncidenciaResuelta, model.IncidenciaRechazada},
	model.IncidenciaEnRevision: {model.IncidenciaResuelta, model.IncidenciaRechazada},
}

// PuedeTransicionar reports whether an incidencia may move from → to.
func PuedeTransicionar(from, to string) bool {
	for _, s := range transicionesIncidencia[from] {
		if s == to {
			return true
		}
	}
	return false
}

type IncidenciaService interface {
	Crear(ctx context.Context, actor Actor, req dto.CrearIncidenciaRequest) (*dto.IncidenciaResponse, error)
	Listar(ctx context.Context, actor Actor, f dto.IncidenciaFilter) (*dto.IncidenciaListResponse, error)
	Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.IncidenciaResponse, error)
	CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, req dto.CambiarEstadoIncidenciaRequest) (*dto.IncidenciaResponse, error)
	ContarAbiertas(ctx context.Context, actor Actor) (int64, error)
}

type incidenciaService struct {
	repo        repository.IncidenciaRepository
	usuarioRepo repository.UsuarioRepository
	emails      EmailQueue
	clock       Clock
}

func NewIncidenciaService(repo repository.IncidenciaRepository, usuarioRepo repository.UsuarioRepository, emails EmailQueue, clock Clock) IncidenciaService {
	return &incidenciaService{repo: repo, usuarioRepo: usuarioRepo, emails: emails, clock: clock}
}

func (s *incidenciaService) Crear(ctx context.Context, actor Actor, req dto.CrearIncidenciaRequest) (*dto.IncidenciaResponse, error) {
	now := s.clock()
	fecha, err := parseFecha(req.Fecha, now.Location())
	if err != nil {
		return nil, err
	}
	if fecha.After(now) {
		return nil, invalido("la fecha de la incidencia no puede ser futura")
	}
	i := &model.Incidencia{
		UsuarioNIF:  actor.NIF,
		Tipo:        req.Tipo,
		Fecha:       req.Fecha,
		Descripcion: strings.TrimSpace(req.Descripcion),
		Estado:      model.IncidenciaPendiente,
	}
	if req.RegistroID != nil && *req.RegistroID != "" {
		rid, err := uuid.Parse(*req.RegistroID)
		if err != nil {
			return nil, invalido("registro_id invalido")
		}
		i.RegistroID = &rid
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, fmt.Errorf("crear incidencia: %w", err)
	}
	resp := incidenciaToResponse(i)
	return &resp, nil
}

func (s *incidenciaService) Listar(ctx context.Context, actor Actor, f dto.IncidenciaFilter) (*dto.IncidenciaListResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	filtro := repository.IncidenciaFiltro{Estado: f.Estado, Page: f.Page, Limit: f.Limit}
	switch {
	case !actor.EsSupervisor():
		filtro.NIF = actor.NIF
	case f.NIF != "":
		if _, err := usuarioVisible(ctx, s.usuarioRepo, actor, f.NIF); err != nil {
			return nil, err
		}
		filtro.NIF = NormalizarNIF(f.NIF)
	default:
		filtro.Departamento = departamentoDe(actor)
	}
	is, total, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, fmt.Errorf("listar incidencias: %w", err)
	}
	resp := &dto.IncidenciaListResponse{
		Data:       make([]dto.IncidenciaResponse, len(is)),
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}
	for k := range is {
		resp.Data[k] = incidenciaToResponse(&is[k])
	}
	return resp, nil
}

func (s *incidenciaService) Obtener(ctx context.Context, actor Actor, id uuid.UUID) (*dto.IncidenciaResponse, error) {
	i, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := incidenciaToResponse(i)
	return &resp, nil
}

func (s *incidenciaService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Incidencia, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "incidencia", "buscar incidencia")
	}
	dep := ""
	if i.Usuario != nil {
		dep = i.Usuario.Departamento
	}
	if !actor.PuedeVer(i.UsuarioNIF, dep) {
		return nil, noEncontrado("incidencia no encontrada")
	}
	return i, nil
}

func (s *incidenciaService) CambiarEstado(ctx context.Context, actor Actor, id uuid.UUID, req dto.CambiarEstadoIncidenciaRequest) (*dto.IncidenciaResponse, error) {
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores gestionan incidencias")
	}
	i, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if i.UsuarioNIF == actor.NIF && !actor.EsAdmin() {
		return nil, sinPermiso("no puedes resolver tus propias incidencias")
	}
	if i.Terminal() {
		return nil, conflicto("la incidencia ya esta %s", i.Estado)
	}
	if !PuedeTransicionar(i.Estado, req.Estado) {
		return nil, conflicto("transicion no permitida: %s → %s", i.Estado, req.Estado)
	}

	i.Estado = req.Estado
	if req.Respuesta != nil {
		r := strings.TrimSpace(*req.Respuesta)
		i.Respuesta = &r
	}
	if i.Terminal() {
		now := s.clock()
		por := actor.NIF
		i.ResueltaAt, i.ResueltaPor = &now, &por
	}
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, fmt.Errorf("actualizar incidencia: %w", err)
	}

	if i.Terminal() && i.Usuario != nil {
		respuesta := ""
		if i.Respuesta != nil {
			respuesta = *i.Respuesta
		}
		notificar(ctx, s.emails, plantillaIncidenciaEstado, i.Usuario.Email, "incidencia:"+i.ID.String(), map[string]string{
			"Nombre":      i.Usuario.Nombre,
			"Fecha":       i.Fecha,
			"Descripcion": i.Descripcion,
			"Estado":      i.Estado,
			"Respuesta":   respuesta,
		})
	}
	resp := incidenciaToResponse(i)
	return &resp, nil
}

// ContarAbiertas counts pendiente/en_revision incidencias the actor is
// responsible for: their own, or their team's for supervisors.
func (s *incidenciaService) ContarAbiertas(ctx context.Context, actor Actor) (int64, error) {
	f := repository.IncidenciaFiltro{Abiertas: true}
	if actor.EsSupervisor() {
		f.Departamento = departamentoDe(actor)
	} else {
		f.NIF = actor.NIF
	}
	return s.repo.Count(ctx, f)
}

func incidenciaToResponse(i *model.Incidencia) dto.IncidenciaResponse {
	resp := dto.IncidenciaResponse{
		ID:          i.ID.String(),
		UsuarioNIF:  i.UsuarioNIF,
		Tipo:        i.Tipo,
		Fecha:       i.Fecha,
		Descripcion: i.Descripcion,
		Estado:      i.Estado,
		Respuesta:   i.Respuesta,
		ResueltaPor: i.ResueltaPor,
		ResueltaAt:  i.ResueltaAt,
		CreatedAt:   i.CreatedAt,
	}
	if i.Usuario != nil {
		resp.Nombre = i.Usuario.NombreCompleto()
	}
	if i.RegistroID != nil {
		rid := i.RegistroID.String()
		resp.RegistroID = &rid
	}
	return resp
}
