package dto

import "time"

// SubirDocumentoForm is bound from the multipart form; the file itself is
// read from the "archivo" field.
type SubirDocumentoForm struct {
	UsuarioNIF string `form:"usuario_nif" validate:"omitempty,nif"`
	Categoria  string `form:"categoria"   validate:"omitempty,oneof=general nomina contrato certificado otro"`
}

type DocumentoResponse struct {
	ID         string    `json:"id"`
	UsuarioNIF string    `json:"usuario_nif"`
	Nombre     string    `json:"nombre"`
	Mime       string    `json:"mime"`
	Tamano     int64     `json:"tamano"`
	Categoria  string    `json:"categoria"`
	SubidoPor  string    `json:"subido_por"`
	CreatedAt  time.Time `json:"created_at"`
}
