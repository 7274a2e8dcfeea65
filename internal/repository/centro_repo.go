package repository

import (
	"context"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CentroRepository interface {
	Create(ctx context.Context, c *model.CentroTrabajo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CentroTrabajo, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.CentroTrabajo, error)
	Update(ctx context.Context, c *model.CentroTrabajo) error
}

type centroRepo struct{ db *gorm.DB }

func NewCentroRepository(db *gorm.DB) CentroRepository { return &centroRepo{db: db} }

func (r *centroRepo) Create(ctx context.Context, c *model.CentroTrabajo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *centroRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CentroTrabajo, error) {
	var c model.CentroTrabajo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *centroRepo) List(ctx context.Context, incluirInactivos bool) ([]model.CentroTrabajo, error) {
	var cs []model.CentroTrabajo
	q := r.db.WithContext(ctx).Order("nombre")
	if !incluirInactivos {
		q = q.Where("activo = ?", true)
	}
	err := q.Find(&cs).Error
	return cs, err
}

func (r *centroRepo) Update(ctx context.Context, c *model.CentroTrabajo) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

type UbicacionRepository interface {
	Create(ctx context.Context, u *model.Ubicacion) error
	// Ultimas returns the most recent point of every user seen since desde.
	Ultimas(ctx context.Context, desde time.Time, departamento string) ([]UbicacionUsuario, error)
	Recorrido(ctx context.Context, nif string, desde, hasta time.Time) ([]model.Ubicacion, error)
}

// UbicacionUsuario is a track point joined with its owner's name.
type UbicacionUsuario struct {
	model.Ubicacion
	Nombre    string
	Apellidos string
}

type ubicacionRepo struct{ db *gorm.DB }

func NewUbicacionRepository(db *gorm.DB) UbicacionRepository { return &ubicacionRepo{db: db} }

func (r *ubicacionRepo) Create(ctx context.Context, u *model.Ubicacion) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *ubicacionRepo) Ultimas(ctx context.Context, desde time.Time, departamento string) ([]UbicacionUsuario, error) {
	latest := r.db.Model(&model.Ubicacion{}).
		Select("usuario_nif, MAX(registrada_at) AS registrada_at").
		Where("registrada_at >= ?", desde).
		Group("usuario_nif")

	var rows []UbicacionUsuario
	q := r.db.WithContext(ctx).
		Table("ubicaciones").
		Select("ubicaciones.*, usuarios.nombre, usuarios.apellidos").
		Joins("JOIN (?) AS ult ON ult.usuario_nif = ubicaciones.usuario_nif AND ult.registrada_at = ubicaciones.registrada_at", latest).
		Joins("JOIN usuarios ON usuarios.nif = ubicaciones.usuario_nif")
	if departamento != "" {
		q = q.Where("usuarios.departamento = ?", departamento)
	}
	err := q.Order("usuarios.apellidos, usuarios.nombre").Scan(&rows).Error
	return rows, err
}

func (r *ubicacionRepo) Recorrido(ctx context.Context, nif string, desde, hasta time.Time) ([]model.Ubicacion, error) {
	var us []model.Ubicacion
	err := r.db.WithContext(ctx).
		Where("usuario_nif = ? AND registrada_at >= ? AND registrada_at < ?", nif, desde, hasta).
		Order("registrada_at ASC").
		Find(&us).Error
	return us, err
}
