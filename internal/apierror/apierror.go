// Package apierror holds the JSON error envelopes returned by the API.
// Handlers never write driver or filesystem errors to the client; they go
// through New/NewValidation so the dashboard always receives the same shape.
package apierror

// APIError is the envelope for every 4xx/5xx response.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError reports per-field failures (422).
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// NewField is shorthand for a validation error on a single field.
func NewField(field, msg string) *ValidationError {
	return NewValidation(map[string]string{field: msg})
}
