package dto

import (
	"net/http"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// Error codes returned in the response envelope. Domain codes pass through
// unchanged so clients see the same code the service raised.
const (
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeTooLarge          = "REQUEST_TOO_LARGE"
	ErrCodeValidation        = shared.CodeValidation
	ErrCodeNotFound          = shared.CodeNotFound
	ErrCodeAlreadyExists     = shared.CodeAlreadyExists
	ErrCodeConflict          = shared.CodeConflict
	ErrCodeInsufficientStock = shared.CodeInsufficientStock
	ErrCodeUnauthorized      = shared.CodeUnauthorized
	ErrCodeForbidden         = shared.CodeForbidden
	ErrCodeTokenExpired      = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked      = "TOKEN_REVOKED"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeTooLarge:   http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
