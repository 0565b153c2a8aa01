package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeCourseNotFound     ErrorCode = "COURSE_NOT_FOUND"
	ErrCodeModuleNotFound     ErrorCode = "MODULE_NOT_FOUND"
	ErrCodeMentorNotFound     ErrorCode = "MENTOR_NOT_FOUND"
	ErrCodePaymentNotFound    ErrorCode = "PAYMENT_NOT_FOUND"
	ErrCodeNotEnrolled        ErrorCode = "NOT_ENROLLED"
	ErrCodePaymentCompleted   ErrorCode = "PAYMENT_ALREADY_COMPLETED"
	ErrCodePaymentFinalized   ErrorCode = "PAYMENT_FINALIZED"
	ErrCodePaymentRequired    ErrorCode = "PAYMENT_REQUIRED"
	ErrCodeModuleMismatch     ErrorCode = "MODULE_COURSE_MISMATCH"
	ErrCodeCourseNotCompleted ErrorCode = "COURSE_NOT_COMPLETED"
	ErrCodeCourseNotFree      ErrorCode = "COURSE_NOT_FREE"
	ErrCodeInvalidSignature   ErrorCode = "INVALID_SIGNATURE"
	ErrCodeGatewayError       ErrorCode = "GATEWAY_ERROR"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy so the shared sentinel errors stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewPaymentFinalizedError reports an attempted transition out of a
// terminal payment status, naming the status the payment actually holds.
func NewPaymentFinalizedError(status string) *AppError {
	return NewConflictError(
		fmt.Sprintf("payment already %s for this course", strings.ToLower(status)),
		ErrCodePaymentFinalized)
}

// NewGatewayError marks a failure at the payment gateway boundary. The
// operation left no partial state behind, so callers may retry.
func NewGatewayError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Code:       ErrCodeGatewayError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound    = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrCourseNotFound  = NewNotFoundError("course not found", ErrCodeCourseNotFound)
	ErrModuleNotFound  = NewNotFoundError("module not found", ErrCodeModuleNotFound)
	ErrMentorNotFound  = NewNotFoundError("mentor not found", ErrCodeMentorNotFound)
	ErrPaymentNotFound = NewNotFoundError("payment not found", ErrCodePaymentNotFound)
	ErrNotEnrolled     = NewNotFoundError("not enrolled in this course", ErrCodeNotEnrolled)

	ErrPaymentCompleted = NewConflictError("payment already completed for this course", ErrCodePaymentCompleted)
	ErrPaymentRequired  = NewConflictError("payment required before enrollment", ErrCodePaymentRequired)
	ErrModuleMismatch   = NewConflictError("module does not belong to this course", ErrCodeModuleMismatch)
	ErrCourseNotFree    = NewConflictError("course is not free", ErrCodeCourseNotFree)

	// ErrCourseNotCompleted carries its own code so clients can tell a
	// premature certificate request apart from other conflicts.
	ErrCourseNotCompleted = NewConflictError("course not completed", ErrCodeCourseNotCompleted)

	ErrInvalidSignature = NewValidationError("invalid payment signature", ErrCodeInvalidSignature)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrEmailTaken         = NewConflictError("email already registered", ErrCodeEmailTaken)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
