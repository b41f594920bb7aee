package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AssociatedRecord names a row that blocks a deletion.
type AssociatedRecord struct {
	ID          string `json:"id"`
	Kind        string `json:"tipo"`
	Description string `json:"descripcion"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code              string             `json:"code"`
	Message           string             `json:"message"`
	Status            int                `json:"-"`
	Details           string             `json:"details,omitempty"`
	Errors            []string           `json:"errors,omitempty"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords,omitempty"`
	Err               error              `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WithDetails returns a copy carrying a free-form detail line.
func (e *Error) WithDetails(format string, args ...interface{}) *Error {
	clone := *e
	clone.Details = fmt.Sprintf(format, args...)
	return &clone
}

// WithErrors returns a copy carrying per-field messages.
func (e *Error) WithErrors(messages ...string) *Error {
	clone := *e
	clone.Errors = append([]string(nil), messages...)
	return &clone
}

// WithRecords returns a copy listing the rows that block the operation.
func (e *Error) WithRecords(records []AssociatedRecord) *Error {
	clone := *e
	clone.AssociatedRecords = append([]AssociatedRecord(nil), records...)
	return &clone
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Credenciales inválidas")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "La cuenta está inactiva")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "Recurso no encontrado")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "Acceso denegado")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "No autorizado")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "Conflicto")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "Error de validación")
	ErrDuplicate          = New("DUPLICATE_KEY", http.StatusBadRequest, "Registro duplicado")
	ErrDeleteBlocked      = New("DELETE_BLOCKED", http.StatusBadRequest, "No se puede eliminar el registro porque tiene registros asociados")
	ErrTransactionAborted = New("TRANSACTION_ABORTED", http.StatusInternalServerError, "La operación fue revertida")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "Error interno del servidor")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	var e *Error
	if !errors.As(err, &e) || target == nil {
		return false
	}
	return e.Code == target.Code
}
