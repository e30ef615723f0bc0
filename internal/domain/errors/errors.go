package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRulesMissing        = errors.New("no rule version is effective for this merchant")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrIdempotencyConflict = errors.New("idempotency key conflict without a stored entry")
	ErrCustomerBlocked     = errors.New("customer is blocked")
	ErrTokenRevoked        = errors.New("token has been revoked")
)

// AppError carries an HTTP status and a stable machine-readable code alongside
// the wrapped domain error.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FromDomain maps a domain sentinel to its HTTP representation. Unrecognized
// errors become 500s with the underlying error hidden from the client.
func FromDomain(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", "resource not found", err)
	case errors.Is(err, ErrRewardNotFound):
		return NewAppError(http.StatusNotFound, "ERR_REWARD_NOT_FOUND", "reward not found", err)
	case errors.Is(err, ErrRulesMissing):
		return NewAppError(http.StatusConflict, "ERR_RULES_MISSING", "no points rule configured for this merchant", err)
	case errors.Is(err, ErrInsufficientPoints):
		return NewAppError(http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_POINTS", "insufficient points", err)
	case errors.Is(err, ErrIdempotencyConflict):
		return NewAppError(http.StatusInternalServerError, "ERR_IDEMPOTENCY_CONFLICT", "idempotency conflict", err)
	case errors.Is(err, ErrCustomerBlocked):
		return NewAppError(http.StatusForbidden, "ERR_CUSTOMER_BLOCKED", "customer is blocked", err)
	case errors.Is(err, ErrTokenRevoked):
		return NewAppError(http.StatusGone, "ERR_TOKEN_REVOKED", "token has been revoked", err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, "ERR_ALREADY_EXISTS", "resource already exists", err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, "ERR_INVALID_INPUT", "invalid input", err)
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, "ERR_INVALID_CREDENTIALS", "invalid credentials", err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", "unauthorized", err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, "ERR_FORBIDDEN", "forbidden", err)
	default:
		return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "internal server error", err)
	}
}

// BadRequest creates a 400 error with a custom message
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "ERR_INVALID_INPUT", message, ErrInvalidInput)
}

// NotFound creates a 404 error with a custom message
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", message, ErrNotFound)
}
