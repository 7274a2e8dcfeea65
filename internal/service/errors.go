package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel kinds. Handlers map them to HTTP status codes; the message of the
// wrapping error is safe to show to the client.
var (
	ErrNoEncontrado    = errors.New("no encontrado")
	ErrSinPermiso      = errors.New("sin permiso")
	ErrConflicto       = errors.New("conflicto")
	ErrValidacion      = errors.New("validacion")
	ErrDemasiadoGrande = errors.New("demasiado grande")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func noEncontrado(format string, args ...any) error {
	return &domainError{kind: ErrNoEncontrado, msg: fmt.Sprintf(format, args...)}
}

func sinPermiso(format string, args ...any) error {
	return &domainError{kind: ErrSinPermiso, msg: fmt.Sprintf(format, args...)}
}

func conflicto(format string, args ...any) error {
	return &domainError{kind: ErrConflicto, msg: fmt.Sprintf(format, args...)}
}

func invalido(format string, args ...any) error {
	return &domainError{kind: ErrValidacion, msg: fmt.Sprintf(format, args...)}
}

func demasiadoGrande(format string, args ...any) error {
	return &domainError{kind: ErrDemasiadoGrande, msg: fmt.Sprintf(format, args...)}
}

// notFoundOr turns gorm.ErrRecordNotFound into a domain error and wraps any
// other storage error with op.
func notFoundOr(err error, entidad, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontrado("%s no encontrado", entidad)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// duplicateOr maps unique-constraint violations to ErrConflicto.
func duplicateOr(err error, msg, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflicto("%s", msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}
