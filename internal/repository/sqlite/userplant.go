package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

// UserPlantDB implements repository.UserPlantRepository. Every read and
// write predicate includes the owner's user id.
type UserPlantDB struct {
	conn *sql.DB
}

var _ repository.UserPlantRepository = (*UserPlantDB)(nil)

// Create inserts a plant for plant.UserID inside one transaction: compute
// the next display order, resolve the group fallback, insert.
//
// Order is max(order)+1 over all of the owner's rows (1 for the first).
// Two concurrent creates can read the same max and insert duplicate orders;
// that race is accepted, duplicate orders are harmless for display.
func (up *UserPlantDB) Create(ctx context.Context, plant *model.UserPlant) error {
	tx, err := up.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var maxOrder int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX("order"), 0) FROM user_plants WHERE user_id = ?`,
		plant.UserID,
	).Scan(&maxOrder)
	if err != nil {
		return fmt.Errorf("sqlite: reading max order for user %d: %w", plant.UserID, err)
	}
	plant.Order = maxOrder + 1

	if plant.UserGroupID == 0 {
		groupID, err := defaultGroupID(ctx, tx, plant.UserID)
		if err != nil {
			return err
		}
		plant.UserGroupID = groupID
	}

	if plant.Count <= 0 {
		plant.Count = 1
	}
	plant.CreatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO user_plants
		   (user_id, plant_id, nickname, count, "order", image_path, user_group_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plant.UserID,
		plant.PlantID,
		plant.Nickname,
		plant.Count,
		plant.Order,
		plant.ImagePath,
		plant.UserGroupID,
		plant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user plant: %w", err)
	}

	plant.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user plant id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user plant create: %w", err)
	}
	return nil
}

// GetByID returns the owner's plant with its catalog entry joined, excluding
// soft-deleted rows. A plant owned by someone else is a plain not-found.
func (up *UserPlantDB) GetByID(ctx context.Context, ownerID, plantID int64) (*model.UserPlantInfo, error) {
	var info model.UserPlantInfo

	err := up.conn.QueryRowContext(ctx,
		`SELECT up.id, up.nickname, up."order", up.count, up.image_path, up.last_watered,
		        p.id, p.name, p.scientific_name, p.type, p.watering_freq,
		        p.watering_period, p.watering_time, p.sun_requirement,
		        p.external_link, p.created_at
		 FROM user_plants up
		 JOIN plants p ON p.id = up.plant_id
		 WHERE up.id = ? AND up.user_id = ? AND up.deleted_at IS NULL`,
		plantID,
		ownerID,
	).Scan(
		&info.ID, &info.Nickname, &info.Order, &info.Count,
		&info.ImagePath, &info.LastWatered,
		&info.PlantData.ID, &info.PlantData.Name, &info.PlantData.ScientificName,
		&info.PlantData.Type, &info.PlantData.WateringFreq,
		&info.PlantData.WateringPeriod, &info.PlantData.WateringTime,
		&info.PlantData.SunRequirement, &info.PlantData.ExternalLink,
		&info.PlantData.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user plant", plantID)
		}
		return nil, fmt.Errorf("sqlite: getting user plant %d: %w", plantID, err)
	}

	return &info, nil
}

// Update applies the non-nil fields of upd, scoped by owner. Returns rows
// matched; zero means nothing the owner holds matched the id.
func (up *UserPlantDB) Update(ctx context.Context, ownerID, plantID int64, upd model.UserPlantUpdate) (int64, error) {
	var (
		sets []string
		args []any
	)
	if upd.Nickname != nil {
		sets = append(sets, "nickname = ?")
		args = append(args, *upd.Nickname)
	}
	if upd.Order != nil {
		sets = append(sets, `"order" = ?`)
		args = append(args, *upd.Order)
	}
	if upd.Count != nil {
		sets = append(sets, "count = ?")
		args = append(args, *upd.Count)
	}
	if upd.ImagePath != nil {
		sets = append(sets, "image_path = ?")
		args = append(args, *upd.ImagePath)
	}
	if upd.UserGroupID != nil {
		sets = append(sets, "user_group_id = ?")
		args = append(args, *upd.UserGroupID)
	}
	if len(sets) == 0 {
		return 0, apperror.ValidationFailed("", "no fields to update")
	}

	args = append(args, plantID, ownerID)
	res, err := up.conn.ExecContext(ctx,
		`UPDATE user_plants SET `+strings.Join(sets, ", ")+`
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating user plant %d: %w", plantID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}

// SoftDelete marks the owner's plant deleted. Returns rows matched.
func (up *UserPlantDB) SoftDelete(ctx context.Context, ownerID, plantID int64) (int64, error) {
	res, err := up.conn.ExecContext(ctx,
		`UPDATE user_plants
		 SET deleted_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		time.Now().UTC(),
		plantID,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting user plant %d: %w", plantID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}

// Water stamps last_watered on the owner's given plants in one statement.
// Ids the owner doesn't hold simply don't match; zero rows is not an
// error.
func (up *UserPlantDB) Water(ctx context.Context, ownerID int64, plantIDs []int64) (int64, error) {
	if len(plantIDs) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?, ", len(plantIDs)-1) + "?"
	args := make([]any, 0, len(plantIDs)+2)
	args = append(args, time.Now().UTC(), ownerID)
	for _, id := range plantIDs {
		args = append(args, id)
	}

	res, err := up.conn.ExecContext(ctx,
		`UPDATE user_plants
		 SET last_watered = ?
		 WHERE user_id = ? AND deleted_at IS NULL AND id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: watering plants for user %d: %w", ownerID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}
