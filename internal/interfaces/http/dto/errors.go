package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 400 for domain errors, which
// covers validation failures raised by domain constructors.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	"ALREADY_EXISTS":           http.StatusConflict,
	"EMAIL_ALREADY_REGISTERED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,

	"USER_NOT_FOUND":     http.StatusNotFound,
	"LISTING_NOT_FOUND":  http.StatusNotFound,
	"LOCATION_NOT_FOUND": http.StatusNotFound,
	"UPLOAD_NOT_FOUND":   http.StatusNotFound,

	"INVALID_STATE": http.StatusUnprocessableEntity,

	"FILE_TOO_LARGE": http.StatusRequestEntityTooLarge,

	"STORAGE_CHECK_FAILED": http.StatusBadGateway,
	"UPLOAD_URL_FAILED":    http.StatusBadGateway,
	"GEOCODING_FAILED":     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unmapped codes are treated as validation failures.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
