package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	bcryptCost = 12
)

// Claims are embedded in every token. Tipo tells access and refresh tokens
// apart so a refresh token cannot be used as a bearer token.
type Claims struct {
	NIF          string `json:"nif"`
	Rol          string `json:"rol"`
	Departamento string `json:"departamento"`
	Tipo         string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() Actor {
	return Actor{NIF: c.NIF, Rol: c.Rol, Departamento: c.Departamento}
}

// ParseToken validates signature, expiry and token type.
func ParseToken(secret, tokenStr, tipo string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token invalido o expirado")
	}
	if claims.Tipo != tipo || claims.NIF == "" {
		return nil, errors.New("token mal formado")
	}
	return claims, nil
}

// ErrCredenciales is returned by Login for unknown users and bad passwords alike.
var ErrCredenciales = errors.New("credenciales invalidas")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CambiarPassword(ctx context.Context, nif string, req dto.CambiarPasswordRequest) error

	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, actor Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, actor Actor, nif string) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, nif string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, actor Actor, nif string) error
	ReactivarUsuario(ctx context.Context, nif string) error
}

type authService struct {
	repo        repository.UsuarioRepository
	horarioRepo repository.HorarioRepository
	centroRepo  repository.CentroRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, horarioRepo repository.HorarioRepository, centroRepo repository.CentroRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, horarioRepo: horarioRepo, centroRepo: centroRepo, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByIdentificador(ctx, strings.TrimSpace(req.Usuario))
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.tokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := ParseToken(s.cfg.JWTSecret, refreshToken, TokenRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token invalido o expirado", ErrCredenciales)
	}
	user, err := s.repo.FindByNIF(ctx, claims.NIF)
	if err != nil || !user.Activo {
		return nil, fmt.Errorf("%w: usuario no encontrado o inactivo", ErrCredenciales)
	}
	return s.tokens(user)
}

func (s *authService) CambiarPassword(ctx context.Context, nif string, req dto.CambiarPasswordRequest) error {
	user, err := s.repo.FindByNIF(ctx, nif)
	if err != nil {
		return notFoundOr(err, "usuario", "buscar usuario")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Actual)); err != nil {
		return invalido("la contraseña actual no es correcta")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Nueva), bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.Update(ctx, user)
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	nif := NormalizarNIF(req.NIF)
	if _, err := s.repo.FindByNIF(ctx, nif); err == nil {
		return nil, conflicto("ya existe un usuario con NIF %s", nif)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		NIF:           nif,
		Nombre:        strings.TrimSpace(req.Nombre),
		Apellidos:     strings.TrimSpace(req.Apellidos),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Telefono:      req.Telefono,
		PasswordHash:  string(hash),
		Rol:           req.Rol,
		Departamento:  strings.TrimSpace(req.Departamento),
		Recordatorios: true,
		Activo:        true,
	}
	if req.Recordatorios != nil {
		user.Recordatorios = *req.Recordatorios
	}
	if user.HorarioID, err = s.horarioRef(ctx, req.HorarioID); err != nil {
		return nil, err
	}
	if user.CentroID, err = s.centroRef(ctx, req.CentroID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicateOr(err, "el email o el NIF ya estan registrados", "crear usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, actor Actor, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	var users []model.Usuario
	var err error
	if actor.EsAdmin() {
		users, err = s.repo.List(ctx, incluirInactivos)
	} else {
		users, err = s.repo.ListByDepartamento(ctx, actor.Departamento)
	}
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, actor Actor, nif string) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByNIF(ctx, NormalizarNIF(nif))
	if err != nil {
		return nil, notFoundOr(err, "usuario", "buscar usuario")
	}
	if !actor.PuedeVer(user.NIF, user.Departamento) {
		return nil, sinPermiso("no puedes consultar este usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, nif string, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByNIF(ctx, NormalizarNIF(nif))
	if err != nil {
		return nil, notFoundOr(err, "usuario", "buscar usuario")
	}
	if req.Nombre != nil {
		user.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Apellidos != nil {
		user.Apellidos = strings.TrimSpace(*req.Apellidos)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Telefono != nil {
		user.Telefono = req.Telefono
	}
	if req.Rol != nil {
		user.Rol = *req.Rol
	}
	if req.Departamento != nil {
		user.Departamento = strings.TrimSpace(*req.Departamento)
	}
	if req.HorarioID != nil {
		if user.HorarioID, err = s.horarioRef(ctx, req.HorarioID); err != nil {
			return nil, err
		}
		user.Horario = nil
	}
	if req.CentroID != nil {
		if user.CentroID, err = s.centroRef(ctx, req.CentroID); err != nil {
			return nil, err
		}
	}
	if req.Recordatorios != nil {
		user.Recordatorios = *req.Recordatorios
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicateOr(err, "el email ya esta registrado", "actualizar usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, actor Actor, nif string) error {
	nif = NormalizarNIF(nif)
	if nif == actor.NIF {
		return invalido("no puedes desactivar tu propio usuario")
	}
	if err := s.repo.SetActivo(ctx, nif, false); err != nil {
		return notFoundOr(err, "usuario", "desactivar usuario")
	}
	return nil
}

func (s *authService) ReactivarUsuario(ctx context.Context, nif string) error {
	if err := s.repo.SetActivo(ctx, NormalizarNIF(nif), true); err != nil {
		return notFoundOr(err, "usuario", "reactivar usuario")
	}
	return nil
}

// horarioRef resolves an optional horario id. An empty string clears it.
func (s *authService) horarioRef(ctx context.Context, id *string) (*uuid.UUID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	hid, err := uuid.Parse(*id)
	if err != nil {
		return nil, invalido("horario_id invalido")
	}
	if _, err := s.horarioRepo.FindByID(ctx, hid); err != nil {
		return nil, notFoundOr(err, "horario", "buscar horario")
	}
	return &hid, nil
}

func (s *authService) centroRef(ctx context.Context, id *string) (*uuid.UUID, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	cid, err := uuid.Parse(*id)
	if err != nil {
		return nil, invalido("centro_id invalido")
	}
	if _, err := s.centroRepo.FindByID(ctx, cid); err != nil {
		return nil, notFoundOr(err, "centro", "buscar centro")
	}
	return &cid, nil
}

func (s *authService) tokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		NIF:          user.NIF,
		Rol:          user.Rol,
		Departamento: user.Departamento,
		Tipo:         tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.NIF,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// NormalizarNIF upper-cases and strips spaces and dashes.
func NormalizarNIF(nif string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(nif)))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		NIF:           u.NIF,
		Nombre:        u.Nombre,
		Apellidos:     u.Apellidos,
		Email:         u.Email,
		Telefono:      u.Telefono,
		Rol:           u.Rol,
		Departamento:  u.Departamento,
		Recordatorios: u.Recordatorios,
		Activo:        u.Activo,
	}
	if u.HorarioID != nil {
		id := u.HorarioID.String()
		resp.HorarioID = &id
	}
	if u.CentroID != nil {
		id := u.CentroID.String()
		resp.CentroID = &id
	}
	return resp
}
