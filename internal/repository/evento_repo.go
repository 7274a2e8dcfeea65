package repository

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventoFiltro selects events overlapping [Desde, Hasta) that the caller can
// see. Todos skips the visibility filter (administradores).
type EventoFiltro struct {
	Desde        time.Time
	Hasta        time.Time
	NIF          string
	Departamento string
	Todos        bool
	Limit        int
}

type EventoRepository interface {
	Create(ctx context.Context, e *model.Evento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error)
	ListVisibles(ctx context.Context, f EventoFiltro) ([]model.Evento, error)
	Update(ctx context.Context, e *model.Evento) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventoRepo struct{ db *gorm.DB }

func NewEventoRepository(db *gorm.DB) EventoRepository { return &eventoRepo{db: db} }

func (r *eventoRepo) Create(ctx context.Context, e *model.Evento) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Evento, error) {
	var e model.Evento
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *eventoRepo) ListVisibles(ctx context.Context, f EventoFiltro) ([]model.Evento, error) {
	var es []model.Evento
	q := r.db.WithContext(ctx).Where("inicio < ? AND fin >= ?", f.Hasta, f.Desde)
	if !f.Todos {
		q = q.Where(
			r.db.Where("visibilidad = ?", model.VisibilidadGlobal).
				Or("visibilidad = ? AND departamento = ?", model.VisibilidadDepartamento, f.Departamento).
				Or("creador_nif = ?", f.NIF),
		)
	}
	q = q.Order("inicio ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	err := q.Find(&es).Error
	return es, err
}

func (r *eventoRepo) Update(ctx context.Context, e *model.Evento) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *eventoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Evento{}).Error
}
