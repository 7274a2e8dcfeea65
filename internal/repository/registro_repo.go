package repository

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"gorm.io/gorm"
)

// RegistroEquipo is a registro joined with its owner's name, for the team view.
type RegistroEquipo struct {
	model.Registro
	Nombre       string
	Apellidos    string
	Departamento string
}

type RegistroRepository interface {
	Create(ctx context.Context, r *model.Registro) error
	// CreateMany inserts all registros in one transaction.
	CreateMany(ctx context.Context, rs []model.Registro) error
	// Ultimo returns the latest registro of the user, or nil when there is none.
	Ultimo(ctx context.Context, nif string) (*model.Registro, error)
	ListByUsuarioRango(ctx context.Context, nif string, desde, hasta time.Time) ([]model.Registro, error)
	// ListEquipo returns every registro in [desde, hasta); an empty
	// departamento means all users.
	ListEquipo(ctx context.Context, desde, hasta time.Time, departamento string) ([]RegistroEquipo, error)
	ExisteTipoDesde(ctx context.Context, nif, tipo string, desde time.Time) (bool, error)
}

type registroRepo struct{ db *gorm.DB }

func NewRegistroRepository(db *gorm.DB) RegistroRepository { return &registroRepo{db: db} }

func (r *registroRepo) Create(ctx context.Context, reg *model.Registro) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registroRepo) CreateMany(ctx context.Context, rs []model.Registro) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rs {
			if err := tx.Create(&rs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *registroRepo) Ultimo(ctx context.Context, nif string) (*model.Registro, error) {
	var regs []model.Registro
	err := r.db.WithContext(ctx).
		Where("usuario_nif = ?", nif).
		Order("fecha_hora DESC, " + model.OrdenTipoSQL("tipo") + " DESC, created_at DESC").
		Limit(1).
		Find(&regs).Error
	if err != nil || len(regs) == 0 {
		return nil, err
	}
	return &regs[0], nil
}

func (r *registroRepo) ListByUsuarioRango(ctx context.Context, nif string, desde, hasta time.Time) ([]model.Registro, error) {
	var regs []model.Registro
	err := r.db.WithContext(ctx).
		Where("usuario_nif = ? AND fecha_hora >= ? AND fecha_hora < ?", nif, desde, hasta).
		Order("fecha_hora ASC, " + model.OrdenTipoSQL("tipo") + " ASC, created_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *registroRepo) ListEquipo(ctx context.Context, desde, hasta time.Time, departamento string) ([]RegistroEquipo, error) {
	var rows []RegistroEquipo
	q := r.db.WithContext(ctx).
		Table("registros").
		Select("registros.*, usuarios.nombre, usuarios.apellidos, usuarios.departamento").
		Joins("JOIN usuarios ON usuarios.nif = registros.usuario_nif").
		Where("registros.fecha_hora >= ? AND registros.fecha_hora < ?", desde, hasta)
	if departamento != "" {
		q = q.Where("usuarios.departamento = ?", departamento)
	}
	err := q.Order("usuarios.apellidos, registros.fecha_hora, " + model.OrdenTipoSQL("registros.tipo")).Scan(&rows).Error
	return rows, err
}

func (r *registroRepo) ExisteTipoDesde(ctx context.Context, nif, tipo string, desde time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Registro{}).
		Where("usuario_nif = ? AND tipo = ? AND fecha_hora >= ?", nif, tipo, desde).
		Count(&n).Error
	return n > 0, err
}
