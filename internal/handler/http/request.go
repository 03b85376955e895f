package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// getUserIDFromContext returns the acting user's id set by AuthRequired
func getUserIDFromContext(r *http.Request) string {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return ""
	}
	return actor.UserID
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func getOptionalIntQueryParam(r *http.Request, key string) *int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &intVal
}

func getOptionalStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// parseDateParam parses a YYYY-MM-DD value as a calendar day in loc.
func parseDateParam(field, value string, loc *time.Location) (time.Time, error) {
	date, ok := validator.ParseDateIn(value, loc)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{Field: field, Message: "must be in YYYY-MM-DD format"}}
	}
	return date, nil
}
