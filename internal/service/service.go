package service

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/geosense/measurement-api/internal/domain"
)

var validate = newValidator()

// newValidator configures a validator that reports fields by their JSON
// names, so VALIDATION_ERROR messages match what the caller actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts the first validator failure into a client error.
func validationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "required":
			return domain.NewValidationError(fe.Field(), "is required")
		case "email":
			return domain.NewValidationError(fe.Field(), "must be a valid email address")
		case "min", "max", "gte", "lte":
			return domain.NewValidationError(fe.Field(), "is out of range")
		default:
			return domain.NewValidationError(fe.Field(), "is invalid")
		}
	}
	return domain.NewValidationError("body", "is invalid")
}

// parseLatLon parses a "lat,lon" pair, tolerating whitespace around the
// components.
func parseLatLon(location string) (float64, float64, error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return 0, 0, domain.ErrInvalidLocation
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, domain.ErrInvalidLocation
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, domain.ErrInvalidLocation
	}
	return lat, lon, nil
}

// parseTime accepts RFC3339 or unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, domain.ErrInvalidTimeRange
}
