package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeAuth       = "AUTH_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
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

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Base returns the embedded AppError. Promoted onto every wrapper type so
// FromError can recover code and status without knowing the concrete type.
func (e *AppError) Base() *AppError {
	return e
}

// FromError extracts the AppError carried by any error in the chain.
func FromError(err error) (*AppError, bool) {
	var holder interface{ Base() *AppError }
	if errors.As(err, &holder) {
		return holder.Base(), true
	}
	return nil, false
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

// AuthError signals a missing or unverifiable identity. Always fatal to the
// request; never recovered downstream.
type AuthError struct {
	*AppError
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAuth,
			StatusCode: 401,
		},
	}
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type NotFoundError struct {
	*AppError
	Resource string
}

func NewNotFoundError(message, resource string) *NotFoundError {
	return &NotFoundError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
			},
		},
		Resource: resource,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}
