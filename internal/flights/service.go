package flights

import (
	"context"
	"fmt"
	"strings"

	"ms-airport/internal/domain"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"
)

type DBLayer interface {
	ListFlights(ctx context.Context, filter models.FlightFilter, o utils.Ordering) ([]models.Flight, error)
	GetFlight(ctx context.Context, id int64) (*models.Flight, error)
	GetFlightsByIDs(ctx context.Context, ids []int64) (map[int64]models.Flight, error)
	CreateFlight(ctx context.Context, f *models.Flight, crewIDs []int64) error
	UpdateFlight(ctx context.Context, f *models.Flight, crewIDs []int64) error
	DeleteFlight(ctx context.Context, id int64) error
	MissingIDs(ctx context.Context, model interface{}, ids []int64) ([]int64, error)
	SeatMap(ctx context.Context, flightID int64) (*models.SeatMap, error)
}

var (
	DefaultOrdering = utils.Ordering{Column: "id"}
	Orderings       = map[string]string{
		"id":             "id",
		"departure_time": "departure_time",
		"arrival_time":   "arrival_time",
	}
)

type FlightService struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewFlightService(db DBLayer, log *logger.Logger) *FlightService {
	return &FlightService{DB: db, Logger: log}
}

func (s *FlightService) ListFlights(ctx context.Context, filter models.FlightFilter, o utils.Ordering) ([]models.Flight, error) {
	return s.DB.ListFlights(ctx, filter, o)
}

func (s *FlightService) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	return s.DB.GetFlight(ctx, id)
}

// GetFlightsByIDs is used by orders to render tickets and to validate seats.
func (s *FlightService) GetFlightsByIDs(ctx context.Context, ids []int64) (map[int64]models.Flight, error) {
	return s.DB.GetFlightsByIDs(ctx, ids)
}

func (s *FlightService) SeatMap(ctx context.Context, id int64) (*models.SeatMap, error) {
	return s.DB.SeatMap(ctx, id)
}

// flightFromPayload checks references and the schedule, reporting every failing field at once.
func (s *FlightService) flightFromPayload(ctx context.Context, p models.FlightPayload) (*models.Flight, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}

	var fields []domain.FieldError
	refs := []struct {
		field string
		model interface{}
		ids   []int64
	}{
		{"route", (*models.Route)(nil), []int64{p.RouteID}},
		{"airplane", (*models.Airplane)(nil), []int64{p.AirplaneID}},
		{"crew", (*models.Crew)(nil), p.CrewIDs},
	}
	for _, ref := range refs {
		missing, err := s.DB.MissingIDs(ctx, ref.model, ref.ids)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			fields = append(fields, domain.FieldError{Field: ref.field, Message: missingPKs(missing)})
		}
	}

	departure, arrival := p.DepartureTime.UTC(), p.ArrivalTime.UTC()
	if !arrival.After(departure) {
		fields = append(fields, domain.FieldError{Field: "arrival_time", Message: "arrival time must be after departure time"})
	}

	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	return &models.Flight{
		RouteID:       p.RouteID,
		AirplaneID:    p.AirplaneID,
		DepartureTime: departure,
		ArrivalTime:   arrival,
	}, nil
}

func missingPKs(ids []int64) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = fmt.Sprintf("%q", fmt.Sprint(id))
	}
	return fmt.Sprintf("invalid pk %s - object does not exist", strings.Join(quoted, ", "))
}

func (s *FlightService) CreateFlight(ctx context.Context, p models.FlightPayload) (*models.Flight, error) {
	f, err := s.flightFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.DB.CreateFlight(ctx, f, p.CrewIDs); err != nil {
		return nil, err
	}
	s.Logger.LogDatabase("INSERT", "flights", fmt.Sprintf("id=%d route=%d departs %s", f.ID, f.RouteID, f.DepartureTime.Format("2006-01-02 15:04")))
	return s.withCrew(f, p.CrewIDs), nil
}

func (s *FlightService) UpdateFlight(ctx context.Context, id int64, p models.FlightPayload) (*models.Flight, error) {
	f, err := s.flightFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	f.ID = id
	if err := s.DB.UpdateFlight(ctx, f, p.CrewIDs); err != nil {
		return nil, err
	}
	return s.withCrew(f, p.CrewIDs), nil
}

func (s *FlightService) DeleteFlight(ctx context.Context, id int64) error {
	if err := s.DB.DeleteFlight(ctx, id); err != nil {
		return err
	}
	s.Logger.LogDatabase("DELETE", "flights", fmt.Sprintf("id=%d with its tickets", id))
	return nil
}

// withCrew fills Crew with id-only members for the write view.
func (s *FlightService) withCrew(f *models.Flight, crewIDs []int64) *models.Flight {
	f.Crew = make([]models.Crew, 0, len(crewIDs))
	for _, id := range crewIDs {
		f.Crew = append(f.Crew, models.Crew{ID: id})
	}
	return f
}
