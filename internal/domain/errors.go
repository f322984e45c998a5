package domain

import (
	"errors"
	"fmt"
)

// APIError is a client-visible error with a stable code and HTTP status.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrMissingParameters = &APIError{Code: "MISSING_PARAMETERS", Message: "location, start_time, end_time are required", Status: 400}
	ErrInvalidLocation   = &APIError{Code: "INVALID_LOCATION", Message: `invalid location format, expected "latitude,longitude"`, Status: 400}
	ErrInvalidTimeRange  = &APIError{Code: "INVALID_TIME_RANGE", Message: "start_time and end_time must be RFC3339 timestamps or unix seconds", Status: 400}
	ErrMissingLocation   = &APIError{Code: "MISSING_LOCATION", Message: "location parameter is required", Status: 400}
	ErrMissingQuery      = &APIError{Code: "MISSING_QUERY", Message: "search query is required", Status: 400}
	ErrUnauthorized      = &APIError{Code: "UNAUTHORIZED", Message: "API key required", Status: 401}
	ErrInvalidAPIKey     = &APIError{Code: "INVALID_API_KEY", Message: "Invalid API key", Status: 401}
	ErrLocationNotFound  = &APIError{Code: "LOCATION_NOT_FOUND", Message: "requested location could not be resolved", Status: 404}
	ErrInternal          = &APIError{Code: "INTERNAL_ERROR", Message: "internal server error", Status: 500}
)

// NewValidationError reports a schema violation naming the offending field.
func NewValidationError(field, detail string) *APIError {
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s %s", field, detail),
		Status:  400,
	}
}

// ErrProviderNotFound is returned by repositories when a credential lookup
// matches no active provider.
var ErrProviderNotFound = errors.New("provider not found")
