// Package resilience defines the shared error taxonomy.
package resilience

import "errors"

// ErrorCode classifies failures raised by the toolkit and its suppliers.
type ErrorCode string

const (
	CodeInputInvalid    ErrorCode = "INPUT_INVALID"
	CodeAuthRequired    ErrorCode = "AUTH_REQUIRED"
	CodeDataConflict    ErrorCode = "DATA_CONFLICT"
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeSupplierTimeout ErrorCode = "SUPPLIER_TIMEOUT"
	CodeTransientRetry  ErrorCode = "TRANSIENT_RETRY"
	CodeConfiguration   ErrorCode = "CONFIGURATION"
	CodeUnknown         ErrorCode = "UNKNOWN"
)

// AppError is a typed application error.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap creates a new AppError with the given code.
func Wrap(code ErrorCode, msg string, err error) error {
	return &AppError{Code: code, Message: msg, Err: err}
}

// CodeOf returns the ErrorCode for an error. Unclassified errors map
// to CodeUnknown so nothing dangerous is retried by default.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return CodeUnknown
}

// Retryable reports whether an error is transient per the taxonomy.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeRateLimited, CodeSupplierTimeout, CodeTransientRetry:
		return true
	default:
		return false
	}
}

// ErrInvalidInput indicates validation failures.
var ErrInvalidInput = &AppError{Code: CodeInputInvalid, Message: "invalid input"}

// ErrAuthRequired indicates missing or rejected credentials.
var ErrAuthRequired = &AppError{Code: CodeAuthRequired, Message: "authentication required"}

// ErrConflict indicates supplier-side idempotency or uniqueness violations.
var ErrConflict = &AppError{Code: CodeDataConflict, Message: "conflict"}

// ErrRateLimited indicates local or supplier admission rejection.
var ErrRateLimited = &AppError{Code: CodeRateLimited, Message: "rate limited"}

// ErrBreakerOpen indicates the circuit breaker is rejecting calls.
var ErrBreakerOpen = &AppError{Code: CodeSupplierTimeout, Message: "circuit open"}
