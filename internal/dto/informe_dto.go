package dto

import "github.com/shopspring/decimal"

type InformeDia struct {
	Fecha           string          `json:"fecha"`
	DiaSemana       string          `json:"dia_semana"`
	Entrada         *string         `json:"entrada,omitempty"`
	Salida          *string         `json:"salida,omitempty"`
	MinutosPausa    int             `json:"minutos_pausa"`
	HorasPrevistas  decimal.Decimal `json:"horas_previstas"`
	HorasTrabajadas decimal.Decimal `json:"horas_trabajadas"`
	// Nota: festivo name, ausencia tipo or "incompleto".
	Nota *string `json:"nota,omitempty"`
}

type InformeMensualResponse struct {
	UsuarioNIF      string          `json:"usuario_nif"`
	Nombre          string          `json:"nombre"`
	Departamento    string          `json:"departamento"`
	Anio            int             `json:"anio"`
	Mes             int             `json:"mes"`
	Dias            []InformeDia    `json:"dias"`
	DiasTrabajados  int             `json:"dias_trabajados"`
	HorasPrevistas  decimal.Decimal `json:"horas_previstas"`
	HorasTrabajadas decimal.Decimal `json:"horas_trabajadas"`
	Diferencia      decimal.Decimal `json:"diferencia"`
}
