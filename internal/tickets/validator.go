package tickets

import (
	"fmt"

	"ms-airport/internal/domain"
	"ms-airport/internal/models"
)

// ValidateTicket checks a (row, seat) pair against an airplane seat grid.
// Both coordinates are checked and every out of range field is reported.
// It is the single rule shared by order request validation and the ticket insert guard.
func ValidateTicket(row, seat int, layout models.SeatLayout) []domain.FieldError {
	checks := []struct {
		field, limit string
		value, max   int
	}{
		{field: "row", limit: "rows", value: row, max: layout.Rows},
		{field: "seat", limit: "seats_in_row", value: seat, max: layout.SeatsInRow},
	}

	var errs []domain.FieldError
	for _, c := range checks {
		if c.value < 1 || c.value > c.max {
			errs = append(errs, domain.FieldError{
				Field:   c.field,
				Message: fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)", c.field, c.limit, c.max),
			})
		}
	}
	return errs
}
