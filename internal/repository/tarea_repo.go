package repository

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TareaFiltro: Ambito is "asignadas", "creadas" or "" for both.
type TareaFiltro struct {
	NIF    string
	Ambito string
	Estado string
}

type TareaRepository interface {
	Create(ctx context.Context, t *model.Tarea) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tarea, error)
	List(ctx context.Context, f TareaFiltro) ([]model.Tarea, error)
	CountPendientes(ctx context.Context, nif string) (int64, error)
	Update(ctx context.Context, t *model.Tarea) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tareaRepo struct{ db *gorm.DB }

func NewTareaRepository(db *gorm.DB) TareaRepository { return &tareaRepo{db: db} }

func (r *tareaRepo) Create(ctx context.Context, t *model.Tarea) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tareaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tarea, error) {
	var t model.Tarea
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *tareaRepo) List(ctx context.Context, f TareaFiltro) ([]model.Tarea, error) {
	q := r.db.WithContext(ctx)
	switch f.Ambito {
	case "asignadas":
		q = q.Where("asignado_nif = ?", f.NIF)
	case "creadas":
		q = q.Where("creador_nif = ?", f.NIF)
	default:
		q = q.Where("asignado_nif = ? OR creador_nif = ?", f.NIF, f.NIF)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	var ts []model.Tarea
	err := q.Order("CASE estado WHEN 'completada' THEN 1 ELSE 0 END, fecha_limite IS NULL, fecha_limite, created_at DESC").
		Find(&ts).Error
	return ts, err
}

func (r *tareaRepo) CountPendientes(ctx context.Context, nif string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Tarea{}).
		Where("asignado_nif = ? AND estado <> ?", nif, model.TareaCompletada).
		Count(&n).Error
	return n, err
}

func (r *tareaRepo) Update(ctx context.Context, t *model.Tarea) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tareaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Tarea{}).Error
}
