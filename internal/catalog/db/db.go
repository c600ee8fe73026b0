package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-airport/internal/domain"
	"ms-airport/internal/models"
	"ms-airport/internal/utils"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func getByID(ctx context.Context, q *bun.SelectQuery, resource string, id int64) error {
	err := q.Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(resource, id)
	}
	if err != nil {
		return fmt.Errorf("get %s %d: %w", resource, id, err)
	}
	return nil
}

func updateByID(ctx context.Context, db bun.IDB, model interface{}, resource string, id int64) error {
	res, err := db.NewUpdate().Model(model).ExcludeColumn("id").Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", resource, id, err)
	}
	return expectRow(res, resource, id)
}

func deleteByID(ctx context.Context, db bun.IDB, model interface{}, resource string, id int64) error {
	res, err := db.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", resource, id, err)
	}
	return expectRow(res, resource, id)
}

func expectRow(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(resource, id)
	}
	return nil
}

func list(ctx context.Context, q *bun.SelectQuery, o utils.Ordering, resource string) error {
	if err := o.Apply(q).Scan(ctx); err != nil {
		return fmt.Errorf("list %s: %w", resource, err)
	}
	return nil
}

// Exists reports whether a row of model's table has the given id.
func (d *DB) Exists(ctx context.Context, model interface{}, id int64) (bool, error) {
	return d.Bun.NewSelect().Model(model).Where("?TableAlias.id = ?", id).Exists(ctx)
}

// ---------------- AIRPLANE TYPES ----------------

func (d *DB) ListAirplaneTypes(ctx context.Context, o utils.Ordering) ([]models.AirplaneType, error) {
	types := []models.AirplaneType{}
	err := list(ctx, d.Bun.NewSelect().Model(&types), o, "airplane types")
	return types, err
}

func (d *DB) GetAirplaneType(ctx context.Context, id int64) (*models.AirplaneType, error) {
	var t models.AirplaneType
	if err := getByID(ctx, d.Bun.NewSelect().Model(&t), "airplane type", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DB) CreateAirplaneType(ctx context.Context, t *models.AirplaneType) error {
	_, err := d.Bun.NewInsert().Model(t).Returning("id").Exec(ctx)
	return err
}

func (d *DB) UpdateAirplaneType(ctx context.Context, t *models.AirplaneType) error {
	return updateByID(ctx, d.Bun, t, "airplane type", t.ID)
}

func (d *DB) DeleteAirplaneType(ctx context.Context, id int64) error {
	return deleteByID(ctx, d.Bun, (*models.AirplaneType)(nil), "airplane type", id)
}

// ---------------- AIRPLANES ----------------

func (d *DB) ListAirplanes(ctx context.Context, o utils.Ordering) ([]models.Airplane, error) {
	airplanes := []models.Airplane{}
	err := list(ctx, d.Bun.NewSelect().Model(&airplanes).Relation("AirplaneType"), o, "airplanes")
	return airplanes, err
}

func (d *DB) GetAirplane(ctx context.Context, id int64) (*models.Airplane, error) {
	var a models.Airplane
	if err := getByID(ctx, d.Bun.NewSelect().Model(&a).Relation("AirplaneType"), "airplane", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *DB) CreateAirplane(ctx context.Context, a *models.Airplane) error {
	_, err := d.Bun.NewInsert().Model(a).Returning("id").Exec(ctx)
	return err
}

func (d *DB) UpdateAirplane(ctx context.Context, a *models.Airplane) error {
	return updateByID(ctx, d.Bun, a, "airplane", a.ID)
}

func (d *DB) DeleteAirplane(ctx context.Context, id int64) error {
	return deleteByID(ctx, d.Bun, (*models.Airplane)(nil), "airplane", id)
}

// ---------------- AIRPORTS ----------------

// ListAirports filters by a case-insensitive substring of closest_big_city when city is set.
func (d *DB) ListAirports(ctx context.Context, city string, o utils.Ordering) ([]models.Airport, error) {
	airports := []models.Airport{}
	q := d.Bun.NewSelect().Model(&airports)
	if city != "" {
		q = q.Where(`LOWER(?TableAlias.closest_big_city) LIKE ? ESCAPE '\'`, "%"+escapeLike(city)+"%")
	}
	err := list(ctx, q, o, "airports")
	return airports, err
}

func (d *DB) GetAirport(ctx context.Context, id int64) (*models.Airport, error) {
	var a models.Airport
	if err := getByID(ctx, d.Bun.NewSelect().Model(&a), "airport", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (d *DB) CreateAirport(ctx context.Context, a *models.Airport) error {
	_, err := d.Bun.NewInsert().Model(a).Returning("id").Exec(ctx)
	return err
}

func (d *DB) UpdateAirport(ctx context.Context, a *models.Airport) error {
	return updateByID(ctx, d.Bun, a, "airport", a.ID)
}

func (d *DB) DeleteAirport(ctx context.Context, id int64) error {
	return deleteByID(ctx, d.Bun, (*models.Airport)(nil), "airport", id)
}

// ---------------- ROUTES ----------------

func (d *DB) ListRoutes(ctx context.Context, o utils.Ordering) ([]models.Route, error) {
	routes := []models.Route{}
	q := d.Bun.NewSelect().Model(&routes).Relation("Source").Relation("Destination")
	err := list(ctx, q, o, "routes")
	return routes, err
}

func (d *DB) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	var r models.Route
	q := d.Bun.NewSelect().Model(&r).Relation("Source").Relation("Destination")
	if err := getByID(ctx, q, "route", id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *DB) CreateRoute(ctx context.Context, r *models.Route) error {
	_, err := d.Bun.NewInsert().Model(r).Returning("id").Exec(ctx)
	return err
}

func (d *DB) UpdateRoute(ctx context.Context, r *models.Route) error {
	return updateByID(ctx, d.Bun, r, "route", r.ID)
}

func (d *DB) DeleteRoute(ctx context.Context, id int64) error {
	return deleteByID(ctx, d.Bun, (*models.Route)(nil), "route", id)
}

// ---------------- CREWS ----------------

func (d *DB) ListCrews(ctx context.Context, o utils.Ordering) ([]models.Crew, error) {
	crews := []models.Crew{}
	err := list(ctx, d.Bun.NewSelect().Model(&crews), o, "crews")
	return crews, err
}

func (d *DB) GetCrew(ctx context.Context, id int64) (*models.Crew, error) {
	var c models.Crew
	if err := getByID(ctx, d.Bun.NewSelect().Model(&c), "crew", id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) CreateCrew(ctx context.Context, c *models.Crew) error {
	_, err := d.Bun.NewInsert().Model(c).Returning("id").Exec(ctx)
	return err
}

func (d *DB) UpdateCrew(ctx context.Context, c *models.Crew) error {
	return updateByID(ctx, d.Bun, c, "crew", c.ID)
}

func (d *DB) DeleteCrew(ctx context.Context, id int64) error {
	return deleteByID(ctx, d.Bun, (*models.Crew)(nil), "crew", id)
}
