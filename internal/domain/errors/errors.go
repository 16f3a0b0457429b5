package errors

import (
	"errors"
	"net/http"
	"strings"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrSelfFollow         = errors.New("cannot follow own profile")
	ErrUpstream           = errors.New("upstream service error")
)

// Error codes surfaced in the extensions.code field of the error envelope
const (
	CodeBadUserInput       = "BAD_USER_INPUT"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeOperationFailed    = "OPERATION_FAILED"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
)

// GenericMessage replaces the message of any error that is not part of the taxonomy.
const GenericMessage = "An error occurred while processing your request."

// AppError represents application error with HTTP status
type AppError struct {
	Status  int      `json:"-"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Err     error    `json:"-"`
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

// ValidationError lists every input field that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validation creates a validation error for the given field names
func Validation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
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

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadUserInput, message, ErrInvalidInput)
}

func Unauthenticated(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthenticated, message, ErrUnauthenticated)
}

func InvalidToken(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidToken, message, ErrInvalidToken)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, GenericMessage, err)
}

// NewError creates a failed-operation error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeOperationFailed,
		Message: message,
		Err:     err,
	}
}

// FromError maps any error onto the taxonomy. The second return value is false
// when the error was unknown and its details must not reach the client.
func FromError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		e := BadRequest("Invalid input")
		e.Fields = validationErr.Fields
		e.Err = err
		return e, true
	}

	switch {
	case errors.Is(err, ErrNotFound):
		// Ownership failures land here too and must look identical.
		return NewAppError(http.StatusNotFound, CodeOperationFailed, "The requested operation could not be completed.", err), true
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, "Resource already exists.", err), true
	case errors.Is(err, ErrInvalidCredentials):
		return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials.", err), true
	case errors.Is(err, ErrUnauthenticated):
		return NewAppError(http.StatusUnauthorized, CodeUnauthenticated, "Authentication required.", err), true
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return NewAppError(http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token.", err), true
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, "Forbidden.", err), true
	case errors.Is(err, ErrAccountSuspended):
		return NewAppError(http.StatusForbidden, CodeForbidden, "Account suspended.", err), true
	case errors.Is(err, ErrSelfFollow), errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, CodeOperationFailed, "The requested operation could not be completed.", err), true
	case errors.Is(err, ErrUpstream):
		return NewAppError(http.StatusBadGateway, CodeUpstream, "Upstream service unavailable.", err), true
	}

	return InternalError(err), false
}
