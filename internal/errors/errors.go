package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrorTypeCorrupt      ErrorType = "STORAGE_CORRUPT"
	ErrorTypeNotAList     ErrorType = "STORAGE_NOT_A_LIST"
	ErrorTypeRead         ErrorType = "STORAGE_READ"
	ErrorTypeWrite        ErrorType = "STORAGE_WRITE"
	ErrorTypeDecode       ErrorType = "DECODE"
	ErrorTypeLockTimeout  ErrorType = "LOCK_TIMEOUT"
	ErrorTypeUnavailable  ErrorType = "UNAVAILABLE"
)

// Sentinels usable with errors.Is. An *AppError matches the sentinel of its Type.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrStorageCorrupt = errors.New("storage corrupt")
	ErrNotAList       = errors.New("storage content is not a list")
	ErrStorageRead    = errors.New("storage read failure")
	ErrStorageWrite   = errors.New("storage write failure")
	ErrDecode         = errors.New("decode failure")
	ErrLockTimeout    = errors.New("lock timeout")
	ErrUnavailable    = errors.New("unavailable")
)

var sentinels = map[ErrorType]error{
	ErrorTypeNotFound:     ErrNotFound,
	ErrorTypeInvalidInput: ErrInvalidInput,
	ErrorTypeCorrupt:      ErrStorageCorrupt,
	ErrorTypeNotAList:     ErrNotAList,
	ErrorTypeRead:         ErrStorageRead,
	ErrorTypeWrite:        ErrStorageWrite,
	ErrorTypeDecode:       ErrDecode,
	ErrorTypeLockTimeout:  ErrLockTimeout,
	ErrorTypeUnavailable:  ErrUnavailable,
}

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e.Type, or an *AppError
// with the same Type and Code.
func (e *AppError) Is(target error) bool {
	if s, ok := sentinels[e.Type]; ok && s == target {
		return true
	}
	var other *AppError
	if errors.As(target, &other) {
		return other.Type == e.Type && other.Code == e.Code
	}
	return false
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewCorruptError describes a data file that failed to parse. It is recovered
// locally and never reaches an HTTP client.
func NewCorruptError(path string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeCorrupt,
		Message:    fmt.Sprintf("corrupted data file %s", path),
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewNotAListError describes valid JSON whose top level is not an array.
func NewNotAListError(path string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotAList,
		Message:    fmt.Sprintf("data file %s does not hold a list", path),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewReadError(path string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRead,
		Message:    fmt.Sprintf("error reading %s", path),
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewStorageWriteError(path string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeWrite,
		Message:    fmt.Sprintf("error saving %s", path),
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewDecodeError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDecode,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

func NewLockTimeoutError(path string) *AppError {
	return &AppError{
		Type:       ErrorTypeLockTimeout,
		Message:    fmt.Sprintf("timed out waiting for lock on %s", path),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

func NewUnavailableError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// HTTPStatusOf maps err to a response status. Errors that are not an
// *AppError are internal server errors.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// IsRecoverable reports whether err is a read-side storage condition that
// has already been absorbed into an empty result.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrStorageCorrupt) ||
		errors.Is(err, ErrNotAList) ||
		errors.Is(err, ErrStorageRead)
}
