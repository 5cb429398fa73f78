package types

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypePermission     ErrorType = "permission_denied"
	ErrorTypeCancelled      ErrorType = "cancelled"
	ErrorTypeTransport      ErrorType = "transport"
	ErrorTypeRejected       ErrorType = "rejected"
	ErrorTypeMalformed      ErrorType = "malformed_response"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeInternal       ErrorType = "internal"
)

// ScreenError represents a structured error in the screening client
type ScreenError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ScreenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *ScreenError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the failure may be retried by resubmitting the
// same request. Authentication failures force a re-login instead; permission
// and cancellation outcomes are user decisions, not retry candidates.
func (e *ScreenError) Retryable() bool {
	switch e.Type {
	case ErrorTypeTransport, ErrorTypeRejected, ErrorTypeMalformed:
		return true
	default:
		return false
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string, details map[string]interface{}) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeAuthentication,
		Code:    code,
		Message: message,
	}
}

// NewPermissionError creates a new device permission error
func NewPermissionError(code, message string) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypePermission,
		Code:    code,
		Message: message,
	}
}

// NewTransportError creates a new transport error
func NewTransportError(code, message string, cause error) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeTransport,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewRejectedError creates a new server rejection error
func NewRejectedError(code, message string, details map[string]interface{}) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeRejected,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewMalformedError creates a new malformed response error
func NewMalformedError(code, message string, cause error) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeMalformed,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *ScreenError {
	return &ScreenError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error codes
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNoSession        = "NO_SESSION"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeCancelled        = "CANCELLED"
	ErrCodeNetwork          = "NETWORK_ERROR"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeUploadRejected   = "UPLOAD_REJECTED"
	ErrCodeServerRejected   = "SERVER_REJECTED"
	ErrCodeBadResponse      = "BAD_RESPONSE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)
