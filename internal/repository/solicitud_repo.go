package repository

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SolicitudFiltro struct {
	NIF          string
	Departamento string
	Estado       string
}

type SolicitudRepository interface {
	Create(ctx context.Context, s *model.Solicitud) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Solicitud, error)
	List(ctx context.Context, f SolicitudFiltro) ([]model.Solicitud, error)
	// Solapadas returns the user's pending or approved solicitudes that
	// intersect [desde, hasta].
	Solapadas(ctx context.Context, nif, desde, hasta string) ([]model.Solicitud, error)
	// AprobadasEnRango returns approved solicitudes intersecting [desde, hasta];
	// an empty nif means every user.
	AprobadasEnRango(ctx context.Context, nif, desde, hasta string) ([]model.Solicitud, error)
	Update(ctx context.Context, s *model.Solicitud) error
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) Create(ctx context.Context, s *model.Solicitud) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Solicitud, error) {
	var s model.Solicitud
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *solicitudRepo) List(ctx context.Context, f SolicitudFiltro) ([]model.Solicitud, error) {
	q := r.db.WithContext(ctx).Model(&model.Solicitud{})
	if f.NIF != "" {
		q = q.Where("solicitudes.usuario_nif = ?", f.NIF)
	}
	if f.Departamento != "" {
		q = q.Joins("JOIN usuarios ON usuarios.nif = solicitudes.usuario_nif").
			Where("usuarios.departamento = ?", f.Departamento)
	}
	if f.Estado != "" {
		q = q.Where("solicitudes.estado = ?", f.Estado)
	}
	var ss []model.Solicitud
	err := q.Order("solicitudes.fecha_inicio DESC").Find(&ss).Error
	return ss, err
}

func (r *solicitudRepo) Solapadas(ctx context.Context, nif, desde, hasta string) ([]model.Solicitud, error) {
	var ss []model.Solicitud
	err := r.db.WithContext(ctx).
		Where("usuario_nif = ? AND estado IN ? AND fecha_inicio <= ? AND fecha_fin >= ?",
			nif, []string{model.SolicitudPendiente, model.SolicitudAprobada}, hasta, desde).
		Find(&ss).Error
	return ss, err
}

func (r *solicitudRepo) AprobadasEnRango(ctx context.Context, nif, desde, hasta string) ([]model.Solicitud, error) {
	q := r.db.WithContext(ctx).
		Where("estado = ? AND fecha_inicio <= ? AND fecha_fin >= ?", model.SolicitudAprobada, hasta, desde)
	if nif != "" {
		q = q.Where("usuario_nif = ?", nif)
	}
	var ss []model.Solicitud
	err := q.Order("fecha_inicio").Find(&ss).Error
	return ss, err
}

func (r *solicitudRepo) Update(ctx context.Context, s *model.Solicitud) error {
	return r.db.WithContext(ctx).Save(s).Error
}
