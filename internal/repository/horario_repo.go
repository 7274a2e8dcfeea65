package repository

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HorarioRepository interface {
	Create(ctx context.Context, h *model.Horario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Horario, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Horario, error)
	Update(ctx context.Context, h *model.Horario) error
	// EnUso counts users and turnos that reference the horario.
	EnUso(ctx context.Context, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type horarioRepo struct{ db *gorm.DB }

func NewHorarioRepository(db *gorm.DB) HorarioRepository { return &horarioRepo{db: db} }

func (r *horarioRepo) Create(ctx context.Context, h *model.Horario) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *horarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Horario, error) {
	var h model.Horario
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	return &h, err
}

func (r *horarioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Horario, error) {
	var hs []model.Horario
	q := r.db.WithContext(ctx).Order("nombre")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&hs).Error
	return hs, err
}

func (r *horarioRepo) Update(ctx context.Context, h *model.Horario) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *horarioRepo) EnUso(ctx context.Context, id uuid.UUID) (int64, error) {
	var usuarios, turnos int64
	if err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("horario_id = ?", id).Count(&usuarios).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Turno{}).Where("horario_id = ?", id).Count(&turnos).Error; err != nil {
		return 0, err
	}
	return usuarios + turnos, nil
}

func (r *horarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Horario{}).Error
}

// ── Turnos ───────────────────────────────────────────────────────────────────

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	ListByUsuario(ctx context.Context, nif string) ([]model.Turno, error)
	// ListAll returns every turno with its horario, for the reminder pass.
	ListAll(ctx context.Context) ([]model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Omit("Horario").Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).Preload("Horario").Where("id = ?", id).First(&t).Error
	return &t, err
}

func (r *turnoRepo) ListByUsuario(ctx context.Context, nif string) ([]model.Turno, error) {
	var ts []model.Turno
	err := r.db.WithContext(ctx).Preload("Horario").
		Where("usuario_nif = ?", nif).
		Order("prioridad DESC, created_at ASC").
		Find(&ts).Error
	return ts, err
}

func (r *turnoRepo) ListAll(ctx context.Context) ([]model.Turno, error) {
	var ts []model.Turno
	err := r.db.WithContext(ctx).Preload("Horario").
		Order("usuario_nif, prioridad DESC, created_at ASC").
		Find(&ts).Error
	return ts, err
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Omit("Horario").Save(t).Error
}

func (r *turnoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Turno{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
