package repository

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentoRepository interface {
	Create(ctx context.Context, d *model.Documento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error)
	ListByUsuario(ctx context.Context, nif string) ([]model.Documento, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentoRepo struct{ db *gorm.DB }

func NewDocumentoRepository(db *gorm.DB) DocumentoRepository { return &documentoRepo{db: db} }

func (r *documentoRepo) Create(ctx context.Context, d *model.Documento) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Documento, error) {
	var d model.Documento
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	return &d, err
}

func (r *documentoRepo) ListByUsuario(ctx context.Context, nif string) ([]model.Documento, error) {
	var ds []model.Documento
	err := r.db.WithContext(ctx).Where("usuario_nif = ?", nif).Order("created_at DESC").Find(&ds).Error
	return ds, err
}

func (r *documentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Documento{}).Error
}
