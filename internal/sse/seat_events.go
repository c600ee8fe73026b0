package sse

import (
	"context"
	"sync"

	"ms-airport/internal/models"
)

// SeatEvent announces seats of a flight claimed by a committed order.
type SeatEvent struct {
	FlightID int64             `json:"flight"`
	OrderID  int64             `json:"order"`
	Seats    []models.SeatSpot `json:"seats"`
}

// SeatEventEmitter fans seat events out to the SSE clients watching each flight.
type SeatEventEmitter struct {
	mu      sync.RWMutex
	clients map[int64][]chan SeatEvent
}

func NewSeatEventEmitter() *SeatEventEmitter {
	return &SeatEventEmitter{clients: make(map[int64][]chan SeatEvent)}
}

// Subscribe registers a client for flightID. The channel is closed once ctx is done.
func (e *SeatEventEmitter) Subscribe(ctx context.Context, flightID int64) <-chan SeatEvent {
	clientChan := make(chan SeatEvent, 10)

	e.mu.Lock()
	e.clients[flightID] = append(e.clients[flightID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.removeClient(flightID, clientChan)
	}()

	return clientChan
}

// Emit delivers event to every subscriber of its flight. Slow clients with a
// full buffer miss the event instead of blocking the order flow.
func (e *SeatEventEmitter) Emit(event SeatEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, clientChan := range e.clients[event.FlightID] {
		select {
		case clientChan <- event:
		default:
		}
	}
}

// EmitOrder emits one SeatEvent per flight touched by order.
func (e *SeatEventEmitter) EmitOrder(order models.Order) {
	var flights []int64
	perFlight := make(map[int64][]models.SeatSpot)
	for _, t := range order.Tickets {
		if _, seen := perFlight[t.FlightID]; !seen {
			flights = append(flights, t.FlightID)
		}
		perFlight[t.FlightID] = append(perFlight[t.FlightID], models.SeatSpot{Row: t.Row, Seat: t.Seat})
	}
	for _, flightID := range flights {
		e.Emit(SeatEvent{FlightID: flightID, OrderID: order.ID, Seats: perFlight[flightID]})
	}
}

func (e *SeatEventEmitter) removeClient(flightID int64, clientChan chan SeatEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[flightID]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[flightID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[flightID]) == 0 {
		delete(e.clients, flightID)
	}
}

// ClientCount returns the number of clients currently watching flightID.
func (e *SeatEventEmitter) ClientCount(flightID int64) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[flightID])
}
