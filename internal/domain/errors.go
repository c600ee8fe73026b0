package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyTicketSet = errors.New("order must contain at least one ticket")
	ErrUnauthorized   = errors.New("authentication required")
	ErrForbidden      = errors.New("permission denied")
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every field error found in one payload.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) ValidationError {
	return ValidationError{Fields: fields}
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return strings.Join(parts, "; ")
}

// InvalidTicketError is a validation failure of the ticket at Index of an order request.
type InvalidTicketError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e InvalidTicketError) Error() string {
	return fmt.Sprintf("tickets[%d].%s: %s", e.Index, e.Field, e.Message)
}

// TicketErrors collects the InvalidTicketErrors of one order request.
type TicketErrors []InvalidTicketError

func (e TicketErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, t := range e {
		parts = append(parts, t.Error())
	}
	return strings.Join(parts, "; ")
}

// TicketErrorsAt converts field errors of the ticket at index.
func TicketErrorsAt(index int, fields []FieldError) TicketErrors {
	out := make(TicketErrors, 0, len(fields))
	for _, f := range fields {
		out = append(out, InvalidTicketError{Index: index, Field: f.Field, Message: f.Message})
	}
	return out
}

// SeatTakenError reports a (flight, row, seat) already claimed by another ticket.
type SeatTakenError struct {
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
	FlightID int64 `json:"flight"`
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d in row %d of flight %d is already taken", e.Seat, e.Row, e.FlightID)
}

type NotFoundError struct {
	Resource string
	ID       int64
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e NotFoundError) Unwrap() error { return e.Err }

func NotFound(resource string, id int64) error {
	return NotFoundError{Resource: resource, ID: id}
}

type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	default:
		return "conflict"
	}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsTicketErrors(err error) bool {
	var target TicketErrors
	return errors.As(err, &target)
}

func IsSeatTaken(err error) bool {
	var target SeatTakenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
