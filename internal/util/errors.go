package util

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSchoolNotFound     = errors.New("school not found")
	ErrPaperNotFound      = errors.New("paper not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrNoStudents         = errors.New("no students found for the class")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrVersionConflict    = errors.New("paper was modified by another request")
	ErrGenerationFailed   = errors.New("report generation failed")
	ErrTestNotFound       = errors.New("personality test not found")
	ErrRetestTooSoon      = errors.New("personality test retaken too soon")
)

// AppError carries the HTTP status a service error should surface with.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, err error, format string, args ...interface{}) *AppError {
	return &AppError{Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return newAppError(http.StatusBadRequest, nil, format, args...)
}

func NewNotFoundError(err error, format string, args ...interface{}) *AppError {
	return newAppError(http.StatusNotFound, err, format, args...)
}

func NewForbiddenError(format string, args ...interface{}) *AppError {
	return newAppError(http.StatusForbidden, ErrPermissionDenied, format, args...)
}

func NewUnauthorizedError(format string, args ...interface{}) *AppError {
	return newAppError(http.StatusUnauthorized, ErrInvalidCredentials, format, args...)
}

func NewConflictError(err error, format string, args ...interface{}) *AppError {
	return newAppError(http.StatusConflict, err, format, args...)
}

// NewUpstreamError hides the cause from clients; HandleError logs it.
func NewUpstreamError(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: "external service failed, please try again later", Err: err}
}

// StatusOf reports the HTTP status carried by err, or 0 if it is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}
