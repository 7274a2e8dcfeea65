package repository

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidenciaFiltro narrows List. Empty fields are ignored.
type IncidenciaFiltro struct {
	NIF          string
	Departamento string
	Estado       string
	// Abiertas keeps only pendiente and en_revision.
	Abiertas bool
	Page     int
	Limit    int
}

type IncidenciaRepository interface {
	Create(ctx context.Context, i *model.Incidencia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Incidencia, error)
	List(ctx context.Context, f IncidenciaFiltro) ([]model.Incidencia, int64, error)
	Count(ctx context.Context, f IncidenciaFiltro) (int64, error)
	Update(ctx context.Context, i *model.Incidencia) error
}

type incidenciaRepo struct{ db *gorm.DB }

func NewIncidenciaRepository(db *gorm.DB) IncidenciaRepository { return &incidenciaRepo{db: db} }

func (r *incidenciaRepo) Create(ctx context.Context, i *model.Incidencia) error {
	return r.db.WithContext(ctx).Omit("Usuario").Create(i).Error
}

func (r *incidenciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Incidencia, error) {
	var i model.Incidencia
	err := r.db.WithContext(ctx).Preload("Usuario").Where("id = ?", id).First(&i).Error
	return &i, err
}

func (r *incidenciaRepo) filtered(ctx context.Context, f IncidenciaFiltro) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Incidencia{})
	if f.NIF != "" {
		q = q.Where("incidencias.usuario_nif = ?", f.NIF)
	}
	if f.Departamento != "" {
		q = q.Joins("JOIN usuarios ON usuarios.nif = incidencias.usuario_nif").
			Where("usuarios.departamento = ?", f.Departamento)
	}
	if f.Estado != "" {
		q = q.Where("incidencias.estado = ?", f.Estado)
	}
	if f.Abiertas {
		q = q.Where("incidencias.estado IN ?", []string{model.IncidenciaPendiente, model.IncidenciaEnRevision})
	}
	return q
}

func (r *incidenciaRepo) List(ctx context.Context, f IncidenciaFiltro) ([]model.Incidencia, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var is []model.Incidencia
	q := r.filtered(ctx, f).Preload("Usuario").Order("incidencias.created_at DESC")
	if f.Limit > 0 {
		q = q.Offset((f.Page - 1) * f.Limit).Limit(f.Limit)
	}
	err := q.Find(&is).Error
	return is, total, err
}

func (r *incidenciaRepo) Count(ctx context.Context, f IncidenciaFiltro) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

func (r *incidenciaRepo) Update(ctx context.Context, i *model.Incidencia) error {
	return r.db.WithContext(ctx).Omit("Usuario").Save(i).Error
}
