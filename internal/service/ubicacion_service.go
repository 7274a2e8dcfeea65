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

// CentroCache is the in-process cache of active centers (infra.CentroCache).
type CentroCache interface {
	CentroProvider
	Invalidate()
}

// UbicacionService covers work centers and location tracking.
type UbicacionService interface {
	CrearCentro(ctx context.Context, req dto.CrearCentroRequest) (*dto.CentroResponse, error)
	ListarCentros(ctx context.Context, incluirInactivos bool) ([]dto.CentroResponse, error)
	ActualizarCentro(ctx context.Context, id uuid.UUID, req dto.ActualizarCentroRequest) (*dto.CentroResponse, error)

	Registrar(ctx context.Context, actor Actor, req dto.RegistrarUbicacionRequest) (*dto.UbicacionResponse, error)
	// Ultimas returns the latest point of each visible user since the start of today.
	Ultimas(ctx context.Context, actor Actor) ([]dto.UbicacionResponse, error)
	Recorrido(ctx context.Context, actor Actor, q dto.RecorridoQuery) ([]dto.UbicacionResponse, error)
}

type ubicacionService struct {
	centroRepo  repository.CentroRepository
	repo        repository.UbicacionRepository
	usuarioRepo repository.UsuarioRepository
	cache       CentroCache
	clock       Clock
}

func NewUbicacionService(centroRepo repository.CentroRepository, repo repository.UbicacionRepository, usuarioRepo repository.UsuarioRepository, cache CentroCache, clock Clock) UbicacionService {
	return &ubicacionService{centroRepo: centroRepo, repo: repo, usuarioRepo: usuarioRepo, cache: cache, clock: clock}
}

// ─── Centros ─────────────────────────────────────────────────────────────────

func (s *ubicacionService) CrearCentro(ctx context.Context, req dto.CrearCentroRequest) (*dto.CentroResponse, error) {
	if err := validarCoordenadas(req.Latitud, req.Longitud); err != nil {
		return nil, err
	}
	c := &model.CentroTrabajo{
		Nombre:    strings.TrimSpace(req.Nombre),
		Direccion: vacioANil(req.Direccion),
		Latitud:   req.Latitud,
		Longitud:  req.Longitud,
		RadioM:    req.RadioM,
		Activo:    true,
	}
	if c.RadioM == 0 {
		c.RadioM = 100
	}
	if err := s.centroRepo.Create(ctx, c); err != nil {
		return nil, duplicateOr(err, "ya existe un centro con ese nombre", "crear centro")
	}
	s.cache.Invalidate()
	resp := centroToResponse(c)
	return &resp, nil
}

func (s *ubicacionService) ListarCentros(ctx context.Context, incluirInactivos bool) ([]dto.CentroResponse, error) {
	var (
		cs  []model.CentroTrabajo
		err error
	)
	if incluirInactivos {
		cs, err = s.centroRepo.List(ctx, true)
	} else {
		cs, err = s.cache.Activos(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listar centros: %w", err)
	}
	resp := make([]dto.CentroResponse, len(cs))
	for i := range cs {
		resp[i] = centroToResponse(&cs[i])
	}
	return resp, nil
}

func (s *ubicacionService) ActualizarCentro(ctx context.Context, id uuid.UUID, req dto.ActualizarCentroRequest) (*dto.CentroResponse, error) {
	c, err := s.centroRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "centro", "buscar centro")
	}
	if req.Nombre != nil {
		c.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Direccion != nil {
		c.Direccion = vacioANil(req.Direccion)
	}
	if req.Latitud != nil {
		c.Latitud = *req.Latitud
	}
	if req.Longitud != nil {
		c.Longitud = *req.Longitud
	}
	if req.RadioM != nil {
		c.RadioM = *req.RadioM
	}
	setBool(&c.Activo, req.Activo)
	if err := validarCoordenadas(c.Latitud, c.Longitud); err != nil {
		return nil, err
	}
	if err := s.centroRepo.Update(ctx, c); err != nil {
		return nil, duplicateOr(err, "ya existe un centro con ese nombre", "actualizar centro")
	}
	s.cache.Invalidate()
	resp := centroToResponse(c)
	return &resp, nil
}

// ─── Ubicaciones ─────────────────────────────────────────────────────────────

func (s *ubicacionService) Registrar(ctx context.Context, actor Actor, req dto.RegistrarUbicacionRequest) (*dto.UbicacionResponse, error) {
	if req.Latitud == nil || req.Longitud == nil {
		return nil, invalido("latitud y longitud son obligatorias")
	}
	if err := validarCoordenadas(*req.Latitud, *req.Longitud); err != nil {
		return nil, err
	}
	u := &model.Ubicacion{
		UsuarioNIF:   actor.NIF,
		Latitud:      *req.Latitud,
		Longitud:     *req.Longitud,
		PrecisionM:   req.PrecisionM,
		RegistradaAt: s.clock(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("registrar ubicacion: %w", err)
	}
	centros, err := s.cache.Activos(ctx)
	if err != nil {
		return nil, fmt.Errorf("centros de trabajo: %w", err)
	}
	resp := ubicacionToResponse(u, "", centros)
	return &resp, nil
}

func (s *ubicacionService) Ultimas(ctx context.Context, actor Actor) ([]dto.UbicacionResponse, error) {
	if !actor.EsSupervisor() {
		return nil, sinPermiso("solo supervisores y administradores ven las ubicaciones del equipo")
	}
	desde := inicioDia(s.clock())
	us, err := s.repo.Ultimas(ctx, desde, departamentoDe(actor))
	if err != nil {
		return nil, fmt.Errorf("ultimas ubicaciones: %w", err)
	}
	centros, err := s.cache.Activos(ctx)
	if err != nil {
		return nil, fmt.Errorf("centros de trabajo: %w", err)
	}
	resp := make([]dto.UbicacionResponse, len(us))
	for i := range us {
		nombre := model.Usuario{Nombre: us[i].Nombre, Apellidos: us[i].Apellidos}.NombreCompleto()
		resp[i] = ubicacionToResponse(&us[i].Ubicacion, nombre, centros)
	}
	return resp, nil
}

func (s *ubicacionService) Recorrido(ctx context.Context, actor Actor, q dto.RecorridoQuery) ([]dto.UbicacionResponse, error) {
	u, err := usuarioVisible(ctx, s.usuarioRepo, actor, q.NIF)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	dia := inicioDia(now)
	if q.Fecha != "" {
		if dia, err = parseFecha(q.Fecha, now.Location()); err != nil {
			return nil, err
		}
	}
	ps, err := s.repo.Recorrido(ctx, u.NIF, dia, dia.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("recorrido: %w", err)
	}
	centros, err := s.cache.Activos(ctx)
	if err != nil {
		return nil, fmt.Errorf("centros de trabajo: %w", err)
	}
	resp := make([]dto.UbicacionResponse, len(ps))
	for i := range ps {
		resp[i] = ubicacionToResponse(&ps[i], u.NombreCompleto(), centros)
	}
	return resp, nil
}

func ubicacionToResponse(u *model.Ubicacion, nombre string, centros []model.CentroTrabajo) dto.UbicacionResponse {
	resp := dto.UbicacionResponse{
		ID:           u.ID.String(),
		UsuarioNIF:   u.UsuarioNIF,
		Nombre:       nombre,
		Latitud:      u.Latitud,
		Longitud:     u.Longitud,
		PrecisionM:   u.PrecisionM,
		RegistradaAt: u.RegistradaAt,
	}
	if g := CentroMasCercano(centros, u.Latitud, u.Longitud); g != nil && g.Dentro {
		n := g.Centro.Nombre
		resp.Centro = &n
	}
	return resp
}

func centroToResponse(c *model.CentroTrabajo) dto.CentroResponse {
	return dto.CentroResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Direccion: c.Direccion,
		Latitud:   c.Latitud,
		Longitud:  c.Longitud,
		RadioM:    c.RadioM,
		Activo:    c.Activo,
	}
}
