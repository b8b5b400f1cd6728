package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// envelope is the backend's standard response wrapper:
// {success, data, error{code,message,details}, meta{total,page,page_size,total_pages}}
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
	Meta    *shared.Meta    `json:"meta"`
}

type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []errorDetail `json:"details"`
}

type errorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// backendCodes maps the backend's error codes onto the dashboard's
var backendCodes = map[string]string{
	"ERR_NOT_FOUND":            shared.CodeNotFound,
	"ERR_ALREADY_EXISTS":       shared.CodeAlreadyExists,
	"ERR_CONFLICT":             shared.CodeConflict,
	"ERR_CONCURRENCY_CONFLICT": shared.CodeConflict,
	"ERR_VALIDATION":           shared.CodeValidation,
	"ERR_VALIDATION_REQUIRED":  shared.CodeValidation,
	"ERR_VALIDATION_FORMAT":    shared.CodeValidation,
	"ERR_VALIDATION_RANGE":     shared.CodeValidation,
	"ERR_VALIDATION_LENGTH":    shared.CodeValidation,
	"ERR_INVALID_INPUT":        shared.CodeInvalidInput,
	"ERR_BAD_REQUEST":          shared.CodeInvalidInput,
	"ERR_INVALID_STATE":        shared.CodeInvalidState,
	"ERR_BUSINESS_RULE":        shared.CodeInvalidState,
	"ERR_INSUFFICIENT_STOCK":   shared.CodeInvalidState,
	"ERR_UNAUTHORIZED":         shared.CodeUnauthorized,
	"ERR_TOKEN_EXPIRED":        shared.CodeUnauthorized,
	"ERR_TOKEN_INVALID":        shared.CodeUnauthorized,
	"ERR_FORBIDDEN":            shared.CodeForbidden,
	"ERR_INTERNAL":             shared.CodeUpstreamUnavailable,
}

var knownCodes = map[string]bool{
	shared.CodeNotFound:            true,
	shared.CodeAlreadyExists:       true,
	shared.CodeConflict:            true,
	shared.CodeInvalidInput:        true,
	shared.CodeValidation:          true,
	shared.CodeInvalidState:        true,
	shared.CodeUnauthorized:        true,
	shared.CodeForbidden:           true,
	shared.CodeUpstreamUnavailable: true,
}

// statusCode maps an HTTP status to a domain error code
func statusCode(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return shared.CodeUnauthorized
	case status == http.StatusForbidden:
		return shared.CodeForbidden
	case status == http.StatusNotFound:
		return shared.CodeNotFound
	case status == http.StatusConflict:
		return shared.CodeConflict
	case status == http.StatusUnprocessableEntity:
		return shared.CodeValidation
	case status == http.StatusBadRequest:
		return shared.CodeInvalidInput
	case status >= 500:
		return shared.CodeUpstreamUnavailable
	default:
		return shared.CodeInvalidInput
	}
}

// normalizeCode picks the domain code for a backend error. Status classes
// that change page flow (401, 403, 404, 5xx) win over the body's code.
func normalizeCode(status int, backendCode string) string {
	byStatus := statusCode(status)
	switch byStatus {
	case shared.CodeUnauthorized, shared.CodeForbidden, shared.CodeUpstreamUnavailable:
		return byStatus
	}
	code := strings.ToUpper(strings.TrimSpace(backendCode))
	if mapped, ok := backendCodes[code]; ok {
		return mapped
	}
	if knownCodes[code] {
		return code
	}
	if status >= 200 && status < 300 {
		return shared.CodeInvalidInput
	}
	return byStatus
}

var defaultMessages = map[string]string{
	shared.CodeUnauthorized:        shared.ErrUnauthorized.Message,
	shared.CodeForbidden:           shared.ErrForbidden.Message,
	shared.CodeNotFound:            shared.ErrNotFound.Message,
	shared.CodeConflict:            "El registro entra en conflicto con datos existentes",
	shared.CodeAlreadyExists:       "El registro ya existe",
	shared.CodeValidation:          "Revise los datos ingresados",
	shared.CodeInvalidInput:        shared.ErrInvalidInput.Message,
	shared.CodeInvalidState:        shared.ErrInvalidState.Message,
	shared.CodeUpstreamUnavailable: shared.ErrUpstreamUnavailable.Message,
}

// apiError converts a failed response into a domain error
func apiError(status int, body *errorBody) *shared.DomainError {
	var backendCode, message string
	if body != nil {
		backendCode = body.Code
		message = strings.TrimSpace(body.Message)
	}
	code := normalizeCode(status, backendCode)
	if message == "" || code == shared.CodeUpstreamUnavailable {
		message = defaultMessages[code]
	}

	err := shared.WrapDomainError(code, message, fmt.Errorf("backend status %d code %q", status, backendCode))
	if body != nil {
		for _, d := range body.Details {
			if d.Field != "" {
				err = err.WithField(d.Field, d.Message)
			}
		}
	}
	return err
}

// decodeResponse unpacks a JSON body into out and returns the list meta.
// Bodies without the success flag are treated as bare data.
func decodeResponse(status int, body []byte, out any) (*shared.Meta, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		if status >= 300 {
			return nil, apiError(status, nil)
		}
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || !strings.HasPrefix(trimmed, "{") {
		if status >= 300 {
			return nil, apiError(status, nil)
		}
		if out == nil {
			return nil, nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return nil, invalidResponse(err)
		}
		return nil, nil
	}

	if status >= 300 || (env.Success != nil && !*env.Success) {
		return nil, apiError(status, env.Error)
	}

	data := env.Data
	if env.Success == nil {
		data = body
	}
	if out != nil && len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, invalidResponse(err)
		}
	}
	return env.Meta, nil
}

func invalidResponse(err error) *shared.DomainError {
	return shared.WrapDomainError(
		shared.CodeUpstreamUnavailable,
		"Respuesta inválida del servicio de facturación",
		fmt.Errorf("decode response: %w", err),
	)
}
