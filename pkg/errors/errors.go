// Package errors defines the storefront's error vocabulary: sentinel kinds,
// AppError for errors that carry a client-facing code and message, and the
// mapping from either to an HTTP status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared by the storefront layers.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
)

// Error codes rendered in the JSON error envelope.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidParameter   = "INVALID_PARAMETER"
	CodeConflict           = "CONFLICT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// InternalMessage is shown to clients for any unclassified failure.
const InternalMessage = "an internal error occurred"

// kind describes how a sentinel is presented when no AppError wraps it.
type kind struct {
	sentinel error
	code     string
	status   int
	message  string // empty means use err.Error()
}

var kinds = []kind{
	{ErrNotFound, CodeNotFound, http.StatusNotFound, "resource not found"},
	{ErrConflict, CodeConflict, http.StatusConflict, "request conflicts with current state"},
	{ErrInvalidInput, CodeInvalidInput, http.StatusBadRequest, ""},
	{ErrServiceUnavail, CodeServiceUnavailable, http.StatusServiceUnavailable, "service unavailable"},
}

// AppError is an error that carries a stable code and an HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code string, status int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource, id string) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound,
		fmt.Sprintf("%s with id %s not found", resource, id), ErrNotFound)
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return newAppError(CodeInvalidInput, http.StatusBadRequest, message, ErrInvalidInput)
}

// Conflict creates a 409 error for a request that is valid but cannot be
// applied to the current state, such as adding an out-of-stock product.
func Conflict(message string) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, message, ErrConflict)
}

// Unavailable creates a 503 error for a failing upstream collaborator. The
// cause is kept for logging but never rendered to clients.
func Unavailable(message string, cause error) *AppError {
	err := ErrServiceUnavail
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrServiceUnavail, cause)
	}
	return newAppError(CodeServiceUnavailable, http.StatusServiceUnavailable, message, err)
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return newAppError(CodeInternal, http.StatusInternalServerError, InternalMessage, err)
}

// Describe returns the status, code and client message for err. AppErrors
// win over wrapped sentinels; anything else is an internal error.
func Describe(err error) (status int, code, message string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Code, appErr.Message
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			message = k.message
			if message == "" {
				message = err.Error()
			}
			return k.status, k.code, message
		}
	}
	return http.StatusInternalServerError, CodeInternal, InternalMessage
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	status, _, _ := Describe(err)
	return status
}
