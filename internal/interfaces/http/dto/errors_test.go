package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"duplicate code", ErrCodeDuplicateCode, http.StatusConflict},
		{"document locked", ErrCodeDocumentLocked, http.StatusConflict},
		{"concurrency conflict", ErrCodeConcurrencyConflict, http.StatusConflict},
		{"already exists", ErrCodeAlreadyExists, http.StatusConflict},
		{"invalid state", ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"no items", ErrCodeNoItems, http.StatusBadRequest},
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"invalid prefix falls back to 400", "INVALID_DISCOUNT", http.StatusBadRequest},
		{"invalid total is a bad request", "INVALID_TOTAL", http.StatusBadRequest},
		{"unknown code falls back to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
		{"internal", ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeDocumentLocked, "document is locked", "req-1", []string{"clientId", "items"})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeDocumentLocked, resp.Error.Code)
	assert.Equal(t, []string{"clientId", "items"}, resp.Error.Details)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
