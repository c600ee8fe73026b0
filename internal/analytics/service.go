package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"ms-airport/internal/domain"
)

// DBLayer is the read side the analytics service aggregates over.
type DBLayer interface {
	GetFlightLoadsByRoute(ctx context.Context, routeID int64) ([]FlightLoadData, error)
	GetFlightLoads(ctx context.Context, flightIDs []int64) ([]FlightLoadData, error)
	GetDailySalesByRoute(ctx context.Context, routeID int64) ([]DailySalesData, error)
	RouteExists(ctx context.Context, routeID int64) (bool, error)
}

// Service handles analytics operations
type Service struct {
	db DBLayer
}

// NewService creates a new analytics service
func NewService(db DBLayer) *Service {
	return &Service{db: db}
}

// FlightLoad is the occupancy of a single flight.
type FlightLoad struct {
	FlightID         int64     `json:"flight_id"`
	DepartureTime    time.Time `json:"departure_time"`
	Capacity         int       `json:"capacity"`
	TicketsSold      int       `json:"tickets_sold"`
	TicketsAvailable int       `json:"tickets_available"`
	LoadFactor       float64   `json:"load_factor"`
}

// DailySalesMetrics contains metrics for a single day
type DailySalesMetrics struct {
	Date        string `json:"date"`
	TicketsSold int    `json:"tickets_sold"`
}

// RouteAnalytics aggregates occupancy and sales over all flights of a route.
type RouteAnalytics struct {
	RouteID          int64               `json:"route_id"`
	TotalCapacity    int                 `json:"total_capacity"`
	TotalTicketsSold int                 `json:"total_tickets_sold"`
	LoadFactor       float64             `json:"load_factor"`
	Flights          []FlightLoad        `json:"flights"`
	DailySales       []DailySalesMetrics `json:"daily_sales"`
}

// GetRouteAnalytics returns per-flight occupancy and daily sales of a route.
func (s *Service) GetRouteAnalytics(ctx context.Context, routeID int64) (*RouteAnalytics, error) {
	ok, err := s.db.RouteExists(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("check route %d: %w", routeID, err)
	}
	if !ok {
		return nil, domain.NotFound("route", routeID)
	}

	loads, err := s.db.GetFlightLoadsByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("flight loads of route %d: %w", routeID, err)
	}
	daily, err := s.db.GetDailySalesByRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("daily sales of route %d: %w", routeID, err)
	}

	result := &RouteAnalytics{RouteID: routeID, DailySales: make([]DailySalesMetrics, 0, len(daily))}
	result.Flights, result.TotalCapacity, result.TotalTicketsSold = summarize(loads)
	result.LoadFactor = loadFactor(result.TotalTicketsSold, result.TotalCapacity)
	for _, d := range daily {
		result.DailySales = append(result.DailySales, DailySalesMetrics{
			Date:        d.SalesDate.UTC().Format("2006-01-02"),
			TicketsSold: d.TicketsSold,
		})
	}
	return result, nil
}

// BatchFlightAnalytics aggregates occupancy over an arbitrary set of flights.
type BatchFlightAnalytics struct {
	FlightIDs        []int64      `json:"flight_ids"`
	Missing          []int64      `json:"missing"`
	TotalCapacity    int          `json:"total_capacity"`
	TotalTicketsSold int          `json:"total_tickets_sold"`
	LoadFactor       float64      `json:"load_factor"`
	Flights          []FlightLoad `json:"flights"`
}

// GetBatchFlightAnalytics returns occupancy for flightIDs. Ids that match no
// flight are reported in Missing rather than failing the batch.
func (s *Service) GetBatchFlightAnalytics(ctx context.Context, flightIDs []int64) (*BatchFlightAnalytics, error) {
	ids := dedupe(flightIDs)
	loads, err := s.db.GetFlightLoads(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("flight loads %v: %w", ids, err)
	}

	found := make(map[int64]bool, len(loads))
	for _, l := range loads {
		found[l.FlightID] = true
	}

	result := &BatchFlightAnalytics{FlightIDs: ids, Missing: []int64{}}
	for _, id := range ids {
		if !found[id] {
			result.Missing = append(result.Missing, id)
		}
	}
	result.Flights, result.TotalCapacity, result.TotalTicketsSold = summarize(loads)
	result.LoadFactor = loadFactor(result.TotalTicketsSold, result.TotalCapacity)
	return result, nil
}

func summarize(loads []FlightLoadData) (flights []FlightLoad, capacity, sold int) {
	flights = make([]FlightLoad, 0, len(loads))
	for _, l := range loads {
		flights = append(flights, FlightLoad{
			FlightID:         l.FlightID,
			DepartureTime:    l.DepartureTime.UTC(),
			Capacity:         l.Capacity,
			TicketsSold:      l.TicketsSold,
			TicketsAvailable: l.Capacity - l.TicketsSold,
			LoadFactor:       loadFactor(l.TicketsSold, l.Capacity),
		})
		capacity += l.Capacity
		sold += l.TicketsSold
	}
	return flights, capacity, sold
}

// loadFactor is sold/capacity rounded to four decimals; zero for an empty plane.
func loadFactor(sold, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return math.Round(float64(sold)/float64(capacity)*10000) / 10000
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
