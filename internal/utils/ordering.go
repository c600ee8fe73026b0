package utils

import (
	"fmt"
	"sort"
	"strings"

	"ms-airport/internal/domain"

	"github.com/uptrace/bun"
)

// Ordering is an explicit sort on a column of the queried table.
type Ordering struct {
	Column string
	Desc   bool
}

// ParseOrdering reads values like "departure_time" or "-departure_time".
// allowed maps public field names onto column names; an empty raw value yields fallback.
func ParseOrdering(raw string, allowed map[string]string, fallback Ordering) (Ordering, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	desc := strings.HasPrefix(raw, "-")
	column, ok := allowed[strings.TrimPrefix(raw, "-")]
	if !ok {
		names := make([]string, 0, len(allowed))
		for name := range allowed {
			names = append(names, name)
		}
		sort.Strings(names)
		return Ordering{}, domain.NewValidationError(domain.FieldError{
			Field:   "ordering",
			Message: fmt.Sprintf("unknown field %q, expected one of %s", raw, strings.Join(names, ", ")),
		})
	}
	return Ordering{Column: column, Desc: desc}, nil
}

// Apply adds the ordering to q, qualified with the query's table alias, and
// breaks ties by id.
func (o Ordering) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	q = q.OrderExpr("?TableAlias.? "+dir, bun.Ident(o.Column))
	if o.Column != "id" {
		q = q.OrderExpr("?TableAlias.id ASC")
	}
	return q
}
