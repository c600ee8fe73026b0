package analytics_api

import (
	"fmt"
	"net/http"

	"ms-airport/internal/analytics"
	"ms-airport/internal/logger"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

type batchRequest struct {
	FlightIDs []int64 `json:"flight_ids" validate:"required,min=1,max=100,dive,gt=0"`
}

// RegisterRoutes registers the analytics routes on a chi router. Every route is admin only.
func (h *Handler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Route("/analytics", func(r chi.Router) {
		r.Use(admin)
		r.Get("/routes/{id}", h.GetRouteAnalytics)
		r.Post("/flights/batch", h.GetBatchFlightAnalytics)
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := utils.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("%s: %v", op, err))
		return
	}
	h.Logger.Debug("ANALYTICS", fmt.Sprintf("%s: %d %v", op, status, err))
}

func (h *Handler) GetRouteAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := utils.URLID(r, "id")
	if err != nil {
		h.fail(w, "GetRouteAnalytics", err)
		return
	}

	result, err := h.Service.GetRouteAnalytics(r.Context(), id)
	if err != nil {
		h.fail(w, "GetRouteAnalytics", err)
		return
	}
	h.Logger.Debug("ANALYTICS", fmt.Sprintf("route %d: %d flights, load %.4f", id, len(result.Flights), result.LoadFactor))
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetBatchFlightAnalytics accepts {"flight_ids":[1,2,3]}.
func (h *Handler) GetBatchFlightAnalytics(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, "GetBatchFlightAnalytics", err)
		return
	}

	result, err := h.Service.GetBatchFlightAnalytics(r.Context(), req.FlightIDs)
	if err != nil {
		h.fail(w, "GetBatchFlightAnalytics", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
