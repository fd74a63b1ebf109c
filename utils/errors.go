// utils/errors.go
package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrForbidden            = errors.New("access denied")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	ErrIncompatibleService  = errors.New("service is not compatible with this vehicle type")
	ErrAlreadyPaid          = errors.New("maintenance log is already paid")
	ErrAlreadyUnpaid        = errors.New("maintenance log is already unpaid")
	ErrNotPaid              = errors.New("maintenance log is not paid; mark it as paid first")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// AppError carries one of the sentinel kinds above plus the message shown to the caller.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Kind }

// Errorf builds an AppError of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrIncompatibleService),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrAlreadyUnpaid),
		errors.Is(err, ErrNotPaid),
		errors.Is(err, ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError aborts the request with a JSON body carrying message.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// HandleError translates err into a response. Unexpected errors are logged and
// reported to the caller with a generic message.
func HandleError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		RespondWithError(c, status, "Internal server error")
		return
	}

	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		RespondWithError(c, status, appErr.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		RespondWithError(c, status, "Record not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		RespondWithError(c, status, "Record already exists")
	default:
		RespondWithError(c, status, err.Error())
	}
}
