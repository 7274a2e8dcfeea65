package dto

import "time"

// ─── Centros ─────────────────────────────────────────────────────────────────

type CrearCentroRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2,max=100"`
	Direccion *string `json:"direccion" validate:"omitempty,max=255"`
	Latitud   float64 `json:"latitud"   validate:"latitude"`
	Longitud  float64 `json:"longitud"  validate:"longitude"`
	RadioM    float64 `json:"radio_m"   validate:"omitempty,min=10,max=10000"`
}

type ActualizarCentroRequest struct {
	Nombre    *string  `json:"nombre"    validate:"omitempty,min=2,max=100"`
	Direccion *string  `json:"direccion" validate:"omitempty,max=255"`
	Latitud   *float64 `json:"latitud"   validate:"omitempty,latitude"`
	Longitud  *float64 `json:"longitud"  validate:"omitempty,longitude"`
	RadioM    *float64 `json:"radio_m"   validate:"omitempty,min=10,max=10000"`
	Activo    *bool    `json:"activo"`
}

type CentroResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Direccion *string `json:"direccion,omitempty"`
	Latitud   float64 `json:"latitud"`
	Longitud  float64 `json:"longitud"`
	RadioM    float64 `json:"radio_m"`
	Activo    bool    `json:"activo"`
}

// ─── Ubicaciones ─────────────────────────────────────────────────────────────

type RegistrarUbicacionRequest struct {
	Latitud    *float64 `json:"latitud"     validate:"required,latitude"`
	Longitud   *float64 `json:"longitud"    validate:"required,longitude"`
	PrecisionM *float64 `json:"precision_m" validate:"omitempty,min=0"`
}

type RecorridoQuery struct {
	NIF   string `form:"nif"   validate:"omitempty,nif"`
	Fecha string `form:"fecha" validate:"omitempty,datetime=2006-01-02"`
}

type UbicacionResponse struct {
	ID           string    `json:"id"`
	UsuarioNIF   string    `json:"usuario_nif"`
	Nombre       string    `json:"nombre,omitempty"`
	Latitud      float64   `json:"latitud"`
	Longitud     float64   `json:"longitud"`
	PrecisionM   *float64  `json:"precision_m,omitempty"`
	RegistradaAt time.Time `json:"registrada_at"`
	// Centro is the nearest geofence containing the point, if any.
	Centro *string `json:"centro,omitempty"`
}
