package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ms-airport/internal/domain"

	"github.com/go-chi/chi/v5"
)

// URLID parses a positive integer path parameter.
func URLID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewValidationError(domain.FieldError{Field: name, Message: fmt.Sprintf("invalid id %q", raw)})
	}
	return id, nil
}

// IDList parses a comma separated list of ids such as "1,4,7".
func IDList(field, raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError(domain.FieldError{Field: field, Message: fmt.Sprintf("invalid id %q", part)})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Date parses a YYYY-MM-DD query value as midnight UTC.
func Date(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: field, Message: "date must have the format YYYY-MM-DD"})
	}
	return &d, nil
}
