// Package errors defines the failure taxonomy surfaced to operators.
//
// Every failure carries a stable ErrorCode so callers and tests can match on the
// category without parsing messages.
//
//nolint:revive // Package name shadows the standard library on purpose; import it aliased
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes
const (
	ErrUnknownPlatform ErrorCode = "UNKNOWN_PLATFORM"
	ErrDirectoryExists ErrorCode = "DIRECTORY_EXISTS"
	ErrNetwork         ErrorCode = "NETWORK"
	ErrHTTPStatus      ErrorCode = "HTTP_STATUS"
	ErrFilesystem      ErrorCode = "FILESYSTEM"
	ErrIntegrity       ErrorCode = "INTEGRITY"
	ErrExternalCommand ErrorCode = "EXTERNAL_COMMAND"
	ErrUnsupportedOS   ErrorCode = "UNSUPPORTED_OS"

	ErrArchive        ErrorCode = "ARCHIVE"
	ErrCatalogInvalid ErrorCode = "CATALOG_INVALID"
	ErrSignature      ErrorCode = "SIGNATURE"
	ErrConfig         ErrorCode = "CONFIG"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrUnknown        ErrorCode = "UNKNOWN"
)

// ProvisionError is a structured error with a code and details
type ProvisionError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ProvisionError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ProvisionError) Unwrap() error {
	return e.Wrapped
}

// Is matches any ProvisionError carrying the same code
func (e *ProvisionError) Is(target error) bool {
	var targetErr *ProvisionError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithDetail adds a key/value pair and returns the error for chaining
func (e *ProvisionError) WithDetail(key string, value interface{}) *ProvisionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail value or nil
func (e *ProvisionError) Detail(key string) interface{} {
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// New creates a ProvisionError
func New(code ErrorCode, message string) *ProvisionError {
	return &ProvisionError{Code: code, Message: message}
}

// Newf creates a ProvisionError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ProvisionError {
	return &ProvisionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a code and message
func Wrap(err error, code ErrorCode, message string) *ProvisionError {
	return &ProvisionError{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps an existing error with a code and formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ProvisionError {
	return &ProvisionError{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// CodeOf extracts the code from an error chain, ErrUnknown if none
func CodeOf(err error) ErrorCode {
	var pe *ProvisionError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrUnknown
}

// IsCode reports whether any error in the chain carries code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, &ProvisionError{Code: code})
}

// As finds the first ProvisionError in the chain
func As(err error) (*ProvisionError, bool) {
	var pe *ProvisionError
	ok := errors.As(err, &pe)
	return pe, ok
}
