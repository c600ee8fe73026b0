package flight_api

import (
	"fmt"
	"net/http"

	"ms-airport/internal/flights"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/presenters"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *flights.FlightService
	Logger  *logger.Logger
}

func NewHandler(service *flights.FlightService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/flights", h.ListFlights)
	r.Get("/flights/{id}", h.GetFlight)
	r.Get("/flights/{id}/seats", h.GetSeatMap)
	r.With(admin).Post("/flights", h.CreateFlight)
	r.With(admin).Put("/flights/{id}", h.UpdateFlight)
	r.With(admin).Delete("/flights/{id}", h.DeleteFlight)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := utils.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("%s: %d %v", op, status, err))
}

// ListFlights supports departure-airport and arrival-airport (comma separated
// airport ids), date (YYYY-MM-DD) and ordering. Filters combine with AND.
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter models.FlightFilter
	var err error
	if filter.DepartureAirportIDs, err = utils.IDList("departure-airport", q.Get("departure-airport")); err != nil {
		h.fail(w, "ListFlights", err)
		return
	}
	if filter.ArrivalAirportIDs, err = utils.IDList("arrival-airport", q.Get("arrival-airport")); err != nil {
		h.fail(w, "ListFlights", err)
		return
	}
	if filter.Date, err = utils.Date("date", q.Get("date")); err != nil {
		h.fail(w, "ListFlights", err)
		return
	}
	o, err := utils.ParseOrdering(q.Get("ordering"), flights.Orderings, flights.DefaultOrdering)
	if err != nil {
		h.fail(w, "ListFlights", err)
		return
	}

	list, err := h.Service.ListFlights(r.Context(), filter, o)
	if err != nil {
		h.fail(w, "ListFlights", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("ListFlights: %d flights", len(list)))

	body := make([]interface{}, 0, len(list))
	for _, f := range list {
		body = append(body, presenters.Flight(f, models.ViewList))
	}
	utils.WriteJSON(w, http.StatusOK, body)
}

func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetFlight", err)
		return
	}
	f, err := h.Service.GetFlight(r.Context(), id)
	if err != nil {
		h.fail(w, "GetFlight", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Flight(*f, models.ViewDetail))
}

func (h *Handler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetSeatMap", err)
		return
	}
	sm, err := h.Service.SeatMap(r.Context(), id)
	if err != nil {
		h.fail(w, "GetSeatMap", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sm)
}

func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var p models.FlightPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "CreateFlight", err)
		return
	}
	f, err := h.Service.CreateFlight(r.Context(), p)
	if err != nil {
		h.fail(w, "CreateFlight", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, presenters.Flight(*f, models.ViewWrite))
}

func (h *Handler) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "UpdateFlight", err)
		return
	}
	var p models.FlightPayload
	if err := utils.DecodeAndValidate(r, &p); err != nil {
		h.fail(w, "UpdateFlight", err)
		return
	}
	f, err := h.Service.UpdateFlight(r.Context(), id, p)
	if err != nil {
		h.fail(w, "UpdateFlight", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, presenters.Flight(*f, models.ViewWrite))
}

func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "DeleteFlight", err)
		return
	}
	if err := h.Service.DeleteFlight(r.Context(), id); err != nil {
		h.fail(w, "DeleteFlight", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
