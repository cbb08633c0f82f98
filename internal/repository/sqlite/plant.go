package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

// PlantDB implements repository.PlantRepository for the shared catalog.
// Catalog plants belong to no user; these methods take no owner id.
type PlantDB struct {
	conn *sql.DB
}

var _ repository.PlantRepository = (*PlantDB)(nil)

const plantColumns = `id, name, scientific_name, type, watering_freq,
	watering_period, watering_time, sun_requirement, external_link, created_at`

func scanPlant(row interface{ Scan(...any) error }, p *model.Plant) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.ScientificName,
		&p.Type,
		&p.WateringFreq,
		&p.WateringPeriod,
		&p.WateringTime,
		&p.SunRequirement,
		&p.ExternalLink,
		&p.CreatedAt,
	)
}

func (pdb *PlantDB) Create(ctx context.Context, plant *model.Plant) error {
	plant.CreatedAt = time.Now().UTC()

	res, err := pdb.conn.ExecContext(ctx,
		`INSERT INTO plants (name, scientific_name, type, watering_freq,
		  watering_period, watering_time, sun_requirement, external_link, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plant.Name,
		plant.ScientificName,
		plant.Type,
		plant.WateringFreq,
		plant.WateringPeriod,
		plant.WateringTime,
		plant.SunRequirement,
		plant.ExternalLink,
		plant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating plant %q: %w", plant.Name, err)
	}

	plant.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new plant id: %w", err)
	}

	return nil
}

// Update replaces all mutable fields of a catalog plant. Returns rows
// matched, zero when the id is unknown.
func (pdb *PlantDB) Update(ctx context.Context, plant *model.Plant) (int64, error) {
	res, err := pdb.conn.ExecContext(ctx,
		`UPDATE plants
		 SET name = ?, scientific_name = ?, type = ?, watering_freq = ?,
		     watering_period = ?, watering_time = ?, sun_requirement = ?,
		     external_link = ?
		 WHERE id = ?`,
		plant.Name,
		plant.ScientificName,
		plant.Type,
		plant.WateringFreq,
		plant.WateringPeriod,
		plant.WateringTime,
		plant.SunRequirement,
		plant.ExternalLink,
		plant.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating plant %d: %w", plant.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}

func (pdb *PlantDB) GetByID(ctx context.Context, id int64) (*model.Plant, error) {
	var plant model.Plant

	row := pdb.conn.QueryRowContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE id = ?`, id)
	if err := scanPlant(row, &plant); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("plant", id)
		}
		return nil, fmt.Errorf("sqlite: getting plant %d: %w", id, err)
	}

	return &plant, nil
}

func (pdb *PlantDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Plant, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := pdb.conn.QueryContext(ctx,
		`SELECT `+plantColumns+` FROM plants ORDER BY id LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing plants: %w", err)
	}
	defer rows.Close()

	plants := make([]model.Plant, 0, limit)
	for rows.Next() {
		var plant model.Plant
		if err := scanPlant(rows, &plant); err != nil {
			return nil, fmt.Errorf("sqlite: scanning plant row: %w", err)
		}
		plants = append(plants, plant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating plants: %w", err)
	}

	return plants, nil
}
