package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", Errorf(ErrUnauthenticated, "x"), http.StatusUnauthorized},
		{"forbidden", Errorf(ErrForbidden, "x"), http.StatusForbidden},
		{"not found", Errorf(ErrNotFound, "x"), http.StatusNotFound},
		{"gorm not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), http.StatusNotFound},
		{"conflict", Errorf(ErrConflict, "x"), http.StatusConflict},
		{"duplicate key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), http.StatusConflict},
		{"validation", Errorf(ErrValidation, "x"), http.StatusBadRequest},
		{"incompatible", Errorf(ErrIncompatibleService, "x"), http.StatusBadRequest},
		{"already paid", ErrAlreadyPaid, http.StatusBadRequest},
		{"already unpaid", ErrAlreadyUnpaid, http.StatusBadRequest},
		{"not paid", ErrNotPaid, http.StatusBadRequest},
		{"payment method", Errorf(ErrInvalidPaymentMethod, "x"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func handle(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/test", nil)

	HandleError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleError_AppErrorMessage(t *testing.T) {
	code, body := handle(t, Errorf(ErrNotFound, "Vehicle not found"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Vehicle not found", body["message"])
}

func TestHandleError_HidesInternalErrors(t *testing.T) {
	code, body := handle(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestHandleError_GormNotFound(t *testing.T) {
	code, body := handle(t, gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Record not found", body["message"])
}

func TestHandleError_DuplicatedKey(t *testing.T) {
	code, body := handle(t, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Record already exists", body["message"])
}
