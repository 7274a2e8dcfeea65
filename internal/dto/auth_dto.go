package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts the NIF or the email as Usuario.
type LoginRequest struct {
	Usuario  string `json:"usuario"  validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CrearUsuarioRequest struct {
	NIF           string  `json:"nif"           validate:"required,nif"`
	Nombre        string  `json:"nombre"        validate:"required,min=2,max=100"`
	Apellidos     string  `json:"apellidos"     validate:"max=150"`
	Email         string  `json:"email"         validate:"required,email"`
	Telefono      *string `json:"telefono"      validate:"omitempty,max=20"`
	Password      string  `json:"password"      validate:"required,min=8"`
	Rol           string  `json:"rol"           validate:"required,oneof=empleado supervisor administrador"`
	Departamento  string  `json:"departamento"  validate:"max=80"`
	HorarioID     *string `json:"horario_id"    validate:"omitempty,uuid"`
	CentroID      *string `json:"centro_id"     validate:"omitempty,uuid"`
	Recordatorios *bool   `json:"recordatorios"`
}

type ActualizarUsuarioRequest struct {
	Nombre        *string `json:"nombre"        validate:"omitempty,min=2,max=100"`
	Apellidos     *string `json:"apellidos"     validate:"omitempty,max=150"`
	Email         *string `json:"email"         validate:"omitempty,email"`
	Telefono      *string `json:"telefono"      validate:"omitempty,max=20"`
	Rol           *string `json:"rol"           validate:"omitempty,oneof=empleado supervisor administrador"`
	Departamento  *string `json:"departamento"  validate:"omitempty,max=80"`
	HorarioID     *string `json:"horario_id"    validate:"omitempty,uuid"`
	CentroID      *string `json:"centro_id"     validate:"omitempty,uuid"`
	Recordatorios *bool   `json:"recordatorios"`
	Password      *string `json:"password"      validate:"omitempty,min=8"`
}

type CambiarPasswordRequest struct {
	Actual string `json:"actual" validate:"required"`
	Nueva  string `json:"nueva"  validate:"required,min=8,nefield=Actual"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	NIF           string  `json:"nif"`
	Nombre        string  `json:"nombre"`
	Apellidos     string  `json:"apellidos"`
	Email         string  `json:"email"`
	Telefono      *string `json:"telefono,omitempty"`
	Rol           string  `json:"rol"`
	Departamento  string  `json:"departamento"`
	HorarioID     *string `json:"horario_id,omitempty"`
	CentroID      *string `json:"centro_id,omitempty"`
	Recordatorios bool    `json:"recordatorios"`
	Activo        bool    `json:"activo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}
