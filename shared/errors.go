package shared

import (
	"errors"
	"net/http"
)

// AppError carries an HTTP status alongside the wrapped cause so the
// fiber error handler can render a proper envelope without the services
// knowing anything about transport.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, err error, message string) *AppError {
	return &AppError{
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// NewBadRequestError covers malformed input to a mutation.
func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, err, message)
}

// NewNotFoundError covers missing users, terms, duels and battles.
func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, err, message)
}

// NewConflictError covers invalid state transitions, e.g. joining a
// battle that is no longer pending.
func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, err, message)
}

// NewInsufficientPointsError covers mutations that cost points the user
// does not have, e.g. a streak save on an empty balance.
func NewInsufficientPointsError(err error, message string) *AppError {
	return newAppError(http.StatusPaymentRequired, err, message)
}

// NewGenerationError covers failures of the external content
// collaborators after any fallback has also been exhausted.
func NewGenerationError(err error, message string) *AppError {
	return newAppError(http.StatusBadGateway, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
