package catalog

import (
	"context"
	"fmt"

	"ms-airport/internal/database"
	"ms-airport/internal/domain"
	"ms-airport/internal/logger"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"
)

type DBLayer interface {
	Exists(ctx context.Context, model interface{}, id int64) (bool, error)

	ListAirplaneTypes(ctx context.Context, o utils.Ordering) ([]models.AirplaneType, error)
	GetAirplaneType(ctx context.Context, id int64) (*models.AirplaneType, error)
	CreateAirplaneType(ctx context.Context, t *models.AirplaneType) error
	UpdateAirplaneType(ctx context.Context, t *models.AirplaneType) error
	DeleteAirplaneType(ctx context.Context, id int64) error

	ListAirplanes(ctx context.Context, o utils.Ordering) ([]models.Airplane, error)
	GetAirplane(ctx context.Context, id int64) (*models.Airplane, error)
	CreateAirplane(ctx context.Context, a *models.Airplane) error
	UpdateAirplane(ctx context.Context, a *models.Airplane) error
	DeleteAirplane(ctx context.Context, id int64) error

	ListAirports(ctx context.Context, city string, o utils.Ordering) ([]models.Airport, error)
	GetAirport(ctx context.Context, id int64) (*models.Airport, error)
	CreateAirport(ctx context.Context, a *models.Airport) error
	UpdateAirport(ctx context.Context, a *models.Airport) error
	DeleteAirport(ctx context.Context, id int64) error

	ListRoutes(ctx context.Context, o utils.Ordering) ([]models.Route, error)
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
	CreateRoute(ctx context.Context, r *models.Route) error
	UpdateRoute(ctx context.Context, r *models.Route) error
	DeleteRoute(ctx context.Context, id int64) error

	ListCrews(ctx context.Context, o utils.Ordering) ([]models.Crew, error)
	GetCrew(ctx context.Context, id int64) (*models.Crew, error)
	CreateCrew(ctx context.Context, c *models.Crew) error
	UpdateCrew(ctx context.Context, c *models.Crew) error
	DeleteCrew(ctx context.Context, id int64) error
}

// Sortable fields per listing. Every listing defaults to DefaultOrdering.
var (
	DefaultOrdering = utils.Ordering{Column: "id"}

	AirplaneTypeOrderings = map[string]string{"id": "id", "name": "name"}
	AirplaneOrderings     = map[string]string{"id": "id", "name": "name", "rows": "rows", "seats_in_row": "seats_in_row"}
	AirportOrderings      = map[string]string{"id": "id", "name": "name", "closest_big_city": "closest_big_city"}
	RouteOrderings        = map[string]string{"id": "id", "distance": "distance"}
	CrewOrderings         = map[string]string{"id": "id", "first_name": "first_name", "last_name": "last_name"}
)

type CatalogService struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewCatalogService(db DBLayer, log *logger.Logger) *CatalogService {
	return &CatalogService{DB: db, Logger: log}
}

// requireExisting returns a field error when no row of model has id.
func (s *CatalogService) requireExisting(ctx context.Context, model interface{}, field string, id int64) (*domain.FieldError, error) {
	ok, err := s.DB.Exists(ctx, model, id)
	if err != nil {
		return nil, fmt.Errorf("check %s %d: %w", field, id, err)
	}
	if !ok {
		return &domain.FieldError{Field: field, Message: fmt.Sprintf("invalid pk %q - object does not exist", fmt.Sprint(id))}, nil
	}
	return nil, nil
}

// ---------------- AIRPLANE TYPES ----------------

func (s *CatalogService) ListAirplaneTypes(ctx context.Context, o utils.Ordering) ([]models.AirplaneType, error) {
	return s.DB.ListAirplaneTypes(ctx, o)
}

func (s *CatalogService) GetAirplaneType(ctx context.Context, id int64) (*models.AirplaneType, error) {
	return s.DB.GetAirplaneType(ctx, id)
}

func (s *CatalogService) CreateAirplaneType(ctx context.Context, p models.AirplaneTypePayload) (*models.AirplaneType, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	t := &models.AirplaneType{Name: p.Name}
	if err := s.DB.CreateAirplaneType(ctx, t); err != nil {
		return nil, duplicateName(err)
	}
	s.Logger.LogDatabase("INSERT", "airplane_types", fmt.Sprintf("id=%d name=%s", t.ID, t.Name))
	return t, nil
}

func (s *CatalogService) UpdateAirplaneType(ctx context.Context, id int64, p models.AirplaneTypePayload) (*models.AirplaneType, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	t := &models.AirplaneType{ID: id, Name: p.Name}
	if err := s.DB.UpdateAirplaneType(ctx, t); err != nil {
		return nil, duplicateName(err)
	}
	return t, nil
}

func (s *CatalogService) DeleteAirplaneType(ctx context.Context, id int64) error {
	return s.DB.DeleteAirplaneType(ctx, id)
}

func duplicateName(err error) error {
	if database.IsUniqueViolation(err) {
		return domain.NewValidationError(domain.FieldError{Field: "name", Message: "airplane type with this name already exists"})
	}
	return err
}

// ---------------- AIRPLANES ----------------

func (s *CatalogService) ListAirplanes(ctx context.Context, o utils.Ordering) ([]models.Airplane, error) {
	return s.DB.ListAirplanes(ctx, o)
}

func (s *CatalogService) GetAirplane(ctx context.Context, id int64) (*models.Airplane, error) {
	return s.DB.GetAirplane(ctx, id)
}

func (s *CatalogService) airplaneFromPayload(ctx context.Context, p models.AirplanePayload) (*models.Airplane, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	fe, err := s.requireExisting(ctx, (*models.AirplaneType)(nil), "airplane_type", p.AirplaneTypeID)
	if err != nil {
		return nil, err
	}
	if fe != nil {
		return nil, domain.NewValidationError(*fe)
	}
	return &models.Airplane{
		Name:           p.Name,
		Rows:           p.Rows,
		SeatsInRow:     p.SeatsInRow,
		AirplaneTypeID: p.AirplaneTypeID,
	}, nil
}

func (s *CatalogService) CreateAirplane(ctx context.Context, p models.AirplanePayload) (*models.Airplane, error) {
	a, err := s.airplaneFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.DB.CreateAirplane(ctx, a); err != nil {
		return nil, err
	}
	s.Logger.LogDatabase("INSERT", "airplanes", fmt.Sprintf("id=%d capacity=%d", a.ID, a.Capacity()))
	return a, nil
}

// UpdateAirplane replaces the airplane. Shrinking the seat grid does not touch
// tickets already sold outside the new grid.
func (s *CatalogService) UpdateAirplane(ctx context.Context, id int64, p models.AirplanePayload) (*models.Airplane, error) {
	a, err := s.airplaneFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.DB.UpdateAirplane(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAirplane(ctx context.Context, id int64) error {
	return s.DB.DeleteAirplane(ctx, id)
}

// ---------------- AIRPORTS ----------------

func (s *CatalogService) ListAirports(ctx context.Context, city string, o utils.Ordering) ([]models.Airport, error) {
	return s.DB.ListAirports(ctx, city, o)
}

func (s *CatalogService) GetAirport(ctx context.Context, id int64) (*models.Airport, error) {
	return s.DB.GetAirport(ctx, id)
}

func (s *CatalogService) CreateAirport(ctx context.Context, p models.AirportPayload) (*models.Airport, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	a := &models.Airport{Name: p.Name, ClosestBigCity: p.ClosestBigCity}
	if err := s.DB.CreateAirport(ctx, a); err != nil {
		return nil, err
	}
	s.Logger.LogDatabase("INSERT", "airports", fmt.Sprintf("id=%d %s", a.ID, a))
	return a, nil
}

func (s *CatalogService) UpdateAirport(ctx context.Context, id int64, p models.AirportPayload) (*models.Airport, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	a := &models.Airport{ID: id, Name: p.Name, ClosestBigCity: p.ClosestBigCity}
	if err := s.DB.UpdateAirport(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAirport(ctx context.Context, id int64) error {
	return s.DB.DeleteAirport(ctx, id)
}

// ---------------- ROUTES ----------------

func (s *CatalogService) ListRoutes(ctx context.Context, o utils.Ordering) ([]models.Route, error) {
	return s.DB.ListRoutes(ctx, o)
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	return s.DB.GetRoute(ctx, id)
}

// routeFromPayload accepts source == destination.
func (s *CatalogService) routeFromPayload(ctx context.Context, p models.RoutePayload) (*models.Route, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}

	var fields []domain.FieldError
	for _, ref := range []struct {
		field string
		id    int64
	}{{"source", p.SourceID}, {"destination", p.DestinationID}} {
		fe, err := s.requireExisting(ctx, (*models.Airport)(nil), ref.field, ref.id)
		if err != nil {
			return nil, err
		}
		if fe != nil {
			fields = append(fields, *fe)
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	return &models.Route{SourceID: p.SourceID, DestinationID: p.DestinationID, Distance: p.Distance}, nil
}

func (s *CatalogService) CreateRoute(ctx context.Context, p models.RoutePayload) (*models.Route, error) {
	r, err := s.routeFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.DB.CreateRoute(ctx, r); err != nil {
		return nil, err
	}
	if r.SourceID == r.DestinationID {
		s.Logger.Warn("CATALOG", fmt.Sprintf("route %d starts and ends at airport %d", r.ID, r.SourceID))
	}
	return r, nil
}

func (s *CatalogService) UpdateRoute(ctx context.Context, id int64, p models.RoutePayload) (*models.Route, error) {
	r, err := s.routeFromPayload(ctx, p)
	if err != nil {
		return nil, err
	}
	r.ID = id
	if err := s.DB.UpdateRoute(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *CatalogService) DeleteRoute(ctx context.Context, id int64) error {
	return s.DB.DeleteRoute(ctx, id)
}

// ---------------- CREWS ----------------

func (s *CatalogService) ListCrews(ctx context.Context, o utils.Ordering) ([]models.Crew, error) {
	return s.DB.ListCrews(ctx, o)
}

func (s *CatalogService) GetCrew(ctx context.Context, id int64) (*models.Crew, error) {
	return s.DB.GetCrew(ctx, id)
}

func (s *CatalogService) CreateCrew(ctx context.Context, p models.CrewPayload) (*models.Crew, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	c := &models.Crew{FirstName: p.FirstName, LastName: p.LastName}
	if err := s.DB.CreateCrew(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCrew(ctx context.Context, id int64, p models.CrewPayload) (*models.Crew, error) {
	if err := utils.ValidateStruct(&p); err != nil {
		return nil, err
	}
	c := &models.Crew{ID: id, FirstName: p.FirstName, LastName: p.LastName}
	if err := s.DB.UpdateCrew(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCrew(ctx context.Context, id int64) error {
	return s.DB.DeleteCrew(ctx, id)
}
