package repository

import (
	"context"
	"errors"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"gorm.io/gorm"
)

// ErrYaEnviado is returned by Registrar when the (usuario, tipo, fecha) row
// already exists.
var ErrYaEnviado = errors.New("recordatorio ya enviado")

type RecordatorioRepository interface {
	// Registrar inserts the dedupe row. The unique index makes concurrent
	// passes race safely: the loser gets ErrYaEnviado.
	Registrar(ctx context.Context, r *model.RecordatorioEnviado) error
	Existe(ctx context.Context, nif, tipo, fecha string) (bool, error)
	ListByFecha(ctx context.Context, fecha string) ([]model.RecordatorioEnviado, error)
	Delete(ctx context.Context, nif, tipo, fecha string) error
}

type recordatorioRepo struct{ db *gorm.DB }

func NewRecordatorioRepository(db *gorm.DB) RecordatorioRepository {
	return &recordatorioRepo{db: db}
}

func (r *recordatorioRepo) Registrar(ctx context.Context, rec *model.RecordatorioEnviado) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrYaEnviado
	}
	return err
}

func (r *recordatorioRepo) Existe(ctx context.Context, nif, tipo, fecha string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RecordatorioEnviado{}).
		Where("usuario_nif = ? AND tipo = ? AND fecha = ?", nif, tipo, fecha).
		Count(&n).Error
	return n > 0, err
}

func (r *recordatorioRepo) ListByFecha(ctx context.Context, fecha string) ([]model.RecordatorioEnviado, error) {
	var rs []model.RecordatorioEnviado
	err := r.db.WithContext(ctx).Where("fecha = ?", fecha).Order("enviado_at").Find(&rs).Error
	return rs, err
}

func (r *recordatorioRepo) Delete(ctx context.Context, nif, tipo, fecha string) error {
	return r.db.WithContext(ctx).
		Where("usuario_nif = ? AND tipo = ? AND fecha = ?", nif, tipo, fecha).
		Delete(&model.RecordatorioEnviado{}).Error
}
