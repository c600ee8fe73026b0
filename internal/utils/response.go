package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ms-airport/internal/domain"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Fields    interface{} `json:"fields,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, error string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     error,
		Timestamp: time.Now(),
	}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto a status code and a structured error body and
// returns the status that was written.
func WriteError(w http.ResponseWriter, err error) int {
	status, resp := errorPayload(err)
	_ = WriteJSON(w, status, resp)
	return status
}

func errorPayload(err error) (int, APIResponse) {
	var (
		ticketErrs domain.TicketErrors
		validation domain.ValidationError
		seatTaken  domain.SeatTakenError
		notFound   domain.NotFoundError
		conflict   domain.ConflictError
	)

	switch {
	case errors.As(err, &ticketErrs):
		resp := ErrorResponse("invalid tickets", "validation_error")
		resp.Fields = []domain.InvalidTicketError(ticketErrs)
		return http.StatusBadRequest, resp
	case errors.As(err, &validation):
		resp := ErrorResponse("invalid payload", "validation_error")
		resp.Fields = validation.Fields
		return http.StatusBadRequest, resp
	case errors.As(err, &seatTaken):
		resp := ErrorResponse(seatTaken.Error(), "seat_taken")
		resp.Fields = seatTaken
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrEmptyTicketSet):
		return http.StatusBadRequest, ErrorResponse(err.Error(), "validation_error")
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorResponse(notFound.Error(), "not_found")
	case errors.As(err, &conflict):
		return http.StatusConflict, ErrorResponse(conflict.Error(), "conflict")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse(err.Error(), "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse(err.Error(), "forbidden")
	default:
		return http.StatusInternalServerError, ErrorResponse("internal server error", "internal_error")
	}
}
