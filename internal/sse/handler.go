package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"

	"github.com/go-chi/chi/v5"
)

const heartbeatInterval = 15 * time.Second

// FlightLookup resolves the flight a stream is opened for.
type FlightLookup interface {
	GetFlight(ctx context.Context, id int64) (*models.Flight, error)
}

type Handler struct {
	Emitter *SeatEventEmitter
	Flights FlightLookup
	Logger  *logger.Logger
}

func NewHandler(emitter *SeatEventEmitter, flights FlightLookup, log *logger.Logger) *Handler {
	return &Handler{Emitter: emitter, Flights: flights, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/flights/{id}/seats/events", h.StreamSeats)
}

// StreamSeats keeps a text/event-stream open and writes a "seats" event each
// time an order claims seats on the flight.
func (h *Handler) StreamSeats(w http.ResponseWriter, r *http.Request) {
	flightID, err := utils.URLID(r, "id")
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if _, err := h.Flights.GetFlight(r.Context(), flightID); err != nil {
		utils.WriteError(w, err)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := h.Emitter.Subscribe(r.Context(), flightID)
	h.Logger.Debug("SSE", fmt.Sprintf("client subscribed to flight %d (%d watching)", flightID, h.Emitter.ClientCount(flightID)))

	fmt.Fprint(w, ": connected\n\n")
	if err := rc.Flush(); err != nil {
		h.Logger.Warn("SSE", fmt.Sprintf("flight %d: streaming unsupported: %v", flightID, err))
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("flight %d: marshal event: %v", flightID, err))
				continue
			}
			fmt.Fprintf(w, "event: seats\ndata: %s\n\n", data)
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
