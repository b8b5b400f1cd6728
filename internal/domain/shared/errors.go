package shared

import "errors"

// Error codes shared by the backend gateway and the page handlers
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeConflict            = "CONFLICT"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidState        = "INVALID_STATE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError represents an error the UI knows how to present
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the transport or decoding error behind the domain error
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps cause for errors.Is/As
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// WithField returns a copy of e carrying a per-field message
func (e *DomainError) WithField(field, message string) *DomainError {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[field] = message
	return &DomainError{Code: e.Code, Message: e.Message, Fields: fields, cause: e.cause}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Recurso no encontrado")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Su sesión ha expirado, inicie sesión nuevamente")
	ErrForbidden           = NewDomainError(CodeForbidden, "No tiene permisos para realizar esta acción")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Datos inválidos")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operación no permitida en el estado actual")
	ErrUpstreamUnavailable = NewDomainError(CodeUpstreamUnavailable, "El servicio de facturación no está disponible, intente más tarde")
)

// CodeOf returns the domain error code carried by err, or CodeInternal
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain error code
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// FieldErrors collects per-field messages while validating a form.
// The first message recorded for a field wins.
type FieldErrors map[string]string

// Add records message for field unless the field already has one
func (f FieldErrors) Add(field, message string) {
	if _, ok := f[field]; !ok {
		f[field] = message
	}
}

// Check records message for field when ok is false
func (f FieldErrors) Check(ok bool, field, message string) {
	if !ok {
		f.Add(field, message)
	}
}

// Err returns a validation DomainError carrying the fields, or nil when empty
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return &DomainError{Code: CodeValidation, Message: message, Fields: f}
}
