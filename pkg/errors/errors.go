package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeCatalogError = "CATALOG_ERROR"
	CodeAPIError     = "API_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeCache        = "CACHE_ERROR"
	CodeDecode       = "DECODE_ERROR"
)

type CatalogError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

func NewCatalogError(message, code string, statusCode int, context map[string]any) *CatalogError {
	return &CatalogError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *CatalogError) WithCause(cause error) *CatalogError {
	e.Cause = cause
	return e
}

// APIError reports a transport failure or a non-2xx upstream response.
type APIError struct {
	*CatalogError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

type NotFoundError struct {
	*CatalogError
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		CatalogError: &CatalogError{
			Message:    fmt.Sprintf("%s not found", resource),
			Code:       CodeNotFound,
			StatusCode: 404,
			Context: map[string]any{
				"resource": resource,
				"id":       id,
			},
		},
		Resource: resource,
		ID:       id,
	}
}

type ValidationError struct {
	*CatalogError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		CatalogError: &CatalogError{
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

type CacheError struct {
	*CatalogError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		CatalogError: &CatalogError{
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

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	*CatalogError
	URL string
}

func NewDecodeError(url string, cause error) *DecodeError {
	return &DecodeError{
		CatalogError: &CatalogError{
			Message:    "failed to decode response",
			Code:       CodeDecode,
			StatusCode: 502,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}

// CacheOpDecode marks a cached value that could not be decoded.
const CacheOpDecode = "decode"

// IsCorruptCacheEntry reports whether err is a cache read whose stored value
// could not be decoded.
func IsCorruptCacheEntry(err error) bool {
	var ce *CacheError
	return stderrors.As(err, &ce) && ce.Operation == CacheOpDecode
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return stderrors.As(err, &nf)
}

// StatusCode extracts the HTTP status carried by a catalog error, or 0.
func StatusCode(err error) int {
	var api *APIError
	if stderrors.As(err, &api) {
		return api.StatusCode
	}
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf.StatusCode
	}
	var dec *DecodeError
	if stderrors.As(err, &dec) {
		return dec.StatusCode
	}
	return 0
}
