package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"

	"github.com/uptrace/bun"
)

// ticketsAvailable is computed per row from the airplane grid and the sold tickets.
const ticketsAvailable = `(SELECT ap2."rows" * ap2."seats_in_row" FROM airplanes AS ap2 WHERE ap2.id = ?TableAlias.airplane_id)` +
	` - (SELECT COUNT(*) FROM tickets AS t2 WHERE t2.flight_id = ?TableAlias.id) AS tickets_available`

type DB struct {
	Bun *bun.DB
}

func (d *DB) selectFlights(model interface{}) *bun.SelectQuery {
	return d.Bun.NewSelect().
		Model(model).
		ColumnExpr("?TableAlias.*").
		ColumnExpr(ticketsAvailable).
		Relation("Route").
		Relation("Route.Source").
		Relation("Route.Destination").
		Relation("Airplane").
		Relation("Airplane.AirplaneType")
}

// ListFlights returns flights matching every non-empty filter field.
func (d *DB) ListFlights(ctx context.Context, filter models.FlightFilter, o utils.Ordering) ([]models.Flight, error) {
	flights := []models.Flight{}
	q := d.selectFlights(&flights)

	if len(filter.DepartureAirportIDs) > 0 {
		q = q.Where("?TableAlias.route_id IN (SELECT r2.id FROM routes AS r2 WHERE r2.source_id IN (?))", bun.In(filter.DepartureAirportIDs))
	}
	if len(filter.ArrivalAirportIDs) > 0 {
		q = q.Where("?TableAlias.route_id IN (SELECT r2.id FROM routes AS r2 WHERE r2.destination_id IN (?))", bun.In(filter.ArrivalAirportIDs))
	}
	if filter.Date != nil {
		from := filter.Date.UTC()
		q = q.Where("?TableAlias.departure_time >= ?", from).
			Where("?TableAlias.departure_time < ?", from.Add(24*time.Hour))
	}

	if err := o.Apply(q).Scan(ctx); err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	if err := d.attachCrew(ctx, flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (d *DB) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	var f models.Flight
	err := d.selectFlights(&f).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("flight", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get flight %d: %w", id, err)
	}

	flights := []models.Flight{f}
	if err := d.attachCrew(ctx, flights); err != nil {
		return nil, err
	}
	return &flights[0], nil
}

// GetFlightsByIDs returns the flights found among ids keyed by id.
func (d *DB) GetFlightsByIDs(ctx context.Context, ids []int64) (map[int64]models.Flight, error) {
	out := make(map[int64]models.Flight, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	flights := []models.Flight{}
	if err := d.selectFlights(&flights).Where("?TableAlias.id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("get flights %v: %w", ids, err)
	}
	if err := d.attachCrew(ctx, flights); err != nil {
		return nil, err
	}
	for _, f := range flights {
		out[f.ID] = f
	}
	return out, nil
}

// attachCrew loads the crew members of every flight in one query pair.
func (d *DB) attachCrew(ctx context.Context, flights []models.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	ids := make([]int64, len(flights))
	for i, f := range flights {
		ids[i] = f.ID
		flights[i].Crew = []models.Crew{}
	}

	var links []models.FlightCrew
	if err := d.Bun.NewSelect().Model(&links).Where("flight_id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return fmt.Errorf("load flight crews: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	crewIDs := make([]int64, 0, len(links))
	for _, l := range links {
		crewIDs = append(crewIDs, l.CrewID)
	}
	var crews []models.Crew
	if err := d.Bun.NewSelect().Model(&crews).Where("id IN (?)", bun.In(crewIDs)).Order("id").Scan(ctx); err != nil {
		return fmt.Errorf("load crews: %w", err)
	}
	byID := make(map[int64]models.Crew, len(crews))
	for _, c := range crews {
		byID[c.ID] = c
	}

	assigned := make(map[int64][]int64, len(flights))
	for _, l := range links {
		assigned[l.FlightID] = append(assigned[l.FlightID], l.CrewID)
	}
	for i := range flights {
		for _, cid := range assigned[flights[i].ID] {
			if c, ok := byID[cid]; ok {
				flights[i].Crew = append(flights[i].Crew, c)
			}
		}
	}
	return nil
}

// CreateFlight inserts the flight and its crew assignments in one transaction.
func (d *DB) CreateFlight(ctx context.Context, f *models.Flight, crewIDs []int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(f).Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("insert flight: %w", err)
		}
		return replaceCrew(ctx, tx, f.ID, crewIDs)
	})
}

// UpdateFlight overwrites the flight and replaces its crew set.
func (d *DB) UpdateFlight(ctx context.Context, f *models.Flight, crewIDs []int64) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(f).
			Column("route_id", "airplane_id", "departure_time", "arrival_time").
			Where("id = ?", f.ID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update flight %d: %w", f.ID, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return domain.NotFound("flight", f.ID)
		}
		return replaceCrew(ctx, tx, f.ID, crewIDs)
	})
}

func replaceCrew(ctx context.Context, tx bun.Tx, flightID int64, crewIDs []int64) error {
	if _, err := tx.NewDelete().Model((*models.FlightCrew)(nil)).Where("flight_id = ?", flightID).Exec(ctx); err != nil {
		return fmt.Errorf("clear crew of flight %d: %w", flightID, err)
	}
	if len(crewIDs) == 0 {
		return nil
	}
	links := make([]models.FlightCrew, 0, len(crewIDs))
	seen := make(map[int64]bool, len(crewIDs))
	for _, id := range crewIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, models.FlightCrew{FlightID: flightID, CrewID: id})
	}
	if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("assign crew to flight %d: %w", flightID, err)
	}
	return nil
}

func (d *DB) DeleteFlight(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().Model((*models.Flight)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete flight %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("flight", id)
	}
	return nil
}

// MissingIDs returns the ids in ids that have no row in model's table, in input order.
func (d *DB) MissingIDs(ctx context.Context, model interface{}, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	err := d.Bun.NewSelect().
		Model(model).
		Column("id").
		Where("?TableAlias.id IN (?)", bun.In(ids)).
		Scan(ctx, &found)
	if err != nil {
		return nil, fmt.Errorf("check ids of %T: %w", model, err)
	}
	present := make(map[int64]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// SeatMap returns the airplane grid of a flight and every claimed seat ordered by row and seat.
func (d *DB) SeatMap(ctx context.Context, flightID int64) (*models.SeatMap, error) {
	f, err := d.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	taken := []models.SeatSpot{}
	err = d.Bun.NewSelect().
		Model((*models.Ticket)(nil)).
		Column("row", "seat").
		Where("flight_id = ?", flightID).
		OrderExpr(`"row" ASC, "seat" ASC`).
		Scan(ctx, &taken)
	if err != nil {
		return nil, fmt.Errorf("load seats of flight %d: %w", flightID, err)
	}

	sm := &models.SeatMap{FlightID: f.ID, TicketsAvailable: f.TicketsAvailable, Taken: taken}
	if f.Airplane != nil {
		sm.Rows = f.Airplane.Rows
		sm.SeatsInRow = f.Airplane.SeatsInRow
	}
	return sm, nil
}
