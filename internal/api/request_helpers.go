package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/domain"
)

// localTimestampLayout is accepted for timestamps sent without a zone; they are read as UTC.
const localTimestampLayout = "2006-01-02T15:04:05"

// getPathID extracts a positive int64 ID from the URL path parameters.
//
// Returns:
//   - (id, nil): The parsed ID if valid
//   - (0, error): A validation error if the parameter is missing or invalid
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// getRequiredIDQuery extracts a required positive int64 from the query string.
func getRequiredIDQuery(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, domain.NewValidationError(name, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrInvalidID)
	}
	return id, nil
}

// getOptionalTimeQuery parses an optional timestamp query parameter.
// RFC 3339 values and zone-less "2006-01-02T15:04:05" values (read as UTC)
// are accepted. A missing parameter yields nil.
func getOptionalTimeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	t, err := parseTimestamp(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an ISO-8601 date-time", domain.ErrValidation)
	}
	return &t, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	// Fractional seconds after the seconds field are accepted by Parse.
	return time.ParseInLocation(localTimestampLayout, raw, time.UTC)
}
