package repository

import (
	"context"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByNIF(ctx context.Context, nif string) (*model.Usuario, error)
	// FindByIdentificador matches an active user by NIF or email (case-insensitive).
	FindByIdentificador(ctx context.Context, identificador string) (*model.Usuario, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error)
	ListByDepartamento(ctx context.Context, departamento string) ([]model.Usuario, error)
	ListParaRecordatorio(ctx context.Context) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	SetActivo(ctx context.Context, nif string, activo bool) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByNIF(ctx context.Context, nif string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Horario").Where("nif = ?", strings.ToUpper(nif)).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByIdentificador(ctx context.Context, identificador string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("(nif = ? OR LOWER(email) = LOWER(?)) AND activo = ?", strings.ToUpper(identificador), identificador, true).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx).Order("apellidos, nombre")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *usuarioRepo) ListByDepartamento(ctx context.Context, departamento string) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).
		Where("departamento = ? AND activo = ?", departamento, true).
		Order("apellidos, nombre").
		Find(&users).Error
	return users, err
}

// ListParaRecordatorio returns active users that did not opt out of
// reminders, with their default horario preloaded.
func (r *usuarioRepo) ListParaRecordatorio(ctx context.Context) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).Preload("Horario").
		Where("activo = ? AND recordatorios = ? AND email <> ''", true, true).
		Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Horario").Save(u).Error
}

func (r *usuarioRepo) SetActivo(ctx context.Context, nif string, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("nif = ?", nif).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
