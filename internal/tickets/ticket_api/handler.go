package ticket_api

import (
	"fmt"
	"net/http"

	"ms-airport/internal/logger"
	tickets "ms-airport/internal/tickets/service"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	TicketCountService *tickets.TicketCountService
	Logger             *logger.Logger
}

func NewHandler(ticketCountService *tickets.TicketCountService, log *logger.Logger) *Handler {
	return &Handler{TicketCountService: ticketCountService, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.With(admin).Get("/flights/{id}/sales", h.GetFlightSales)
}

// GetFlightSales returns the daily ticket counters of a flight.
func (h *Handler) GetFlightSales(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	counts, err := h.TicketCountService.SalesForFlight(r.Context(), id)
	if err != nil {
		if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
			h.Logger.Error("API", fmt.Sprintf("GetFlightSales: flight %d: %v", id, err))
		}
		return
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"flight_id": id,
		"total":     total,
		"daily":     counts,
	})
}
