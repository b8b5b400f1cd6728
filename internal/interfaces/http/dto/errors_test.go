package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTenantNotFound, http.StatusNotFound},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeUpstreamUnavailable, http.StatusServiceUnavailable},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{shared.CodeNotFound, ErrCodeNotFound},
		{shared.CodeValidation, ErrCodeValidation},
		{shared.CodeUnauthorized, ErrCodeUnauthorized},
		{shared.CodeUpstreamUnavailable, ErrCodeUpstreamUnavailable},
		{"BAD_REQUEST", ErrCodeBadRequest},
		// New codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryDomainCodeHasStatus(t *testing.T) {
	for domainCode, code := range DomainErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[code]
			assert.True(t, ok, "code %s should be in ErrorCodeHTTPStatus", code)
			assert.Contains(t, code, "ERR_")
		})
	}
}

func TestErrorFrom(t *testing.T) {
	t.Run("domain error", func(t *testing.T) {
		status, info := ErrorFrom(fmt.Errorf("loading factura: %w", shared.ErrUpstreamUnavailable))
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, ErrCodeUpstreamUnavailable, info.Code)
		assert.Equal(t, shared.ErrUpstreamUnavailable.Message, info.Message)
	})

	t.Run("validation keeps fields", func(t *testing.T) {
		err := shared.FieldErrors{"ruc": "RUC no válido"}.Err("Revise la configuración")
		status, info := ErrorFrom(err)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "RUC no válido", info.Fields["ruc"])
	})

	t.Run("plain error hides details", func(t *testing.T) {
		status, info := ErrorFrom(errors.New("dial tcp 10.0.0.4:5432: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, info.Code)
		assert.NotContains(t, info.Message, "10.0.0.4")
	})
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Recurso no encontrado")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code) // Should be normalized
	assert.Equal(t, "Recurso no encontrado", resp.Error.Message)
}

func TestNewErrorResponseFrom(t *testing.T) {
	status, resp := NewErrorResponseFrom(shared.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestResponseJSON(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(EstadoResponse{ID: "9", Estado: "AUTORIZADO", Final: true}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":"9","estado":"AUTORIZADO","etiqueta":"","final":true}}`, string(data))

	data, err = json.Marshal(NewErrorResponse(ErrCodeUnauthorized, "Sesión expirada"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_UNAUTHORIZED","message":"Sesión expirada"}}`, string(data))
}
