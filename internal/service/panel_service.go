package service

import (
	"context"
	"fmt"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"

	"golang.org/x/sync/errgroup"
)

type PanelService interface {
	Resumen(ctx context.Context, actor Actor) (*dto.PanelResponse, error)
}

type panelService struct {
	fichajes    FichajeService
	horarios    HorarioService
	tareas      TareaService
	incidencias IncidenciaService
	eventos     EventoService
	clock       Clock
}

func NewPanelService(fichajes FichajeService, horarios HorarioService, tareas TareaService, incidencias IncidenciaService, eventos EventoService, clock Clock) PanelService {
	return &panelService{fichajes: fichajes, horarios: horarios, tareas: tareas, incidencias: incidencias, eventos: eventos, clock: clock}
}

// Resumen gathers the dashboard widgets concurrently; any failure fails the
// whole call.
func (s *panelService) Resumen(ctx context.Context, actor Actor) (*dto.PanelResponse, error) {
	now := s.clock()
	resp := &dto.PanelResponse{GeneradoAt: now}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e, err := s.fichajes.Estado(ctx, actor.NIF)
		if err != nil {
			return fmt.Errorf("estado: %w", err)
		}
		resp.Estado, resp.HorasHoy = e.Estado, e.HorasHoy
		return nil
	})
	g.Go(func() error {
		// Weeks start on Monday.
		hoy := inicioDia(now)
		lunes := hoy.AddDate(0, 0, -((int(hoy.Weekday()) + 6) % 7))
		r, err := s.fichajes.Resumen(ctx, actor, dto.RangoQuery{
			Desde: lunes.Format(fechaLayout),
			Hasta: hoy.Format(fechaLayout),
		})
		if err != nil {
			return fmt.Errorf("resumen semanal: %w", err)
		}
		resp.HorasSemana = r.TotalHoras
		return nil
	})
	g.Go(func() error {
		d, err := s.horarios.HorarioEfectivo(ctx, actor, actor.NIF, "")
		if err != nil {
			return fmt.Errorf("horario: %w", err)
		}
		resp.HorarioHoy = d
		return nil
	})
	g.Go(func() error {
		n, err := s.tareas.ContarPendientes(ctx, actor.NIF)
		if err != nil {
			return fmt.Errorf("tareas: %w", err)
		}
		resp.TareasPendientes = n
		return nil
	})
	g.Go(func() error {
		n, err := s.incidencias.ContarAbiertas(ctx, actor)
		if err != nil {
			return fmt.Errorf("incidencias: %w", err)
		}
		resp.IncidenciasAbiertas = n
		return nil
	})
	g.Go(func() error {
		es, err := s.eventos.Proximos(ctx, actor, 5)
		if err != nil {
			return fmt.Errorf("eventos: %w", err)
		}
		resp.ProximosEventos = es
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
