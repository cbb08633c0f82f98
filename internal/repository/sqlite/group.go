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

// GroupDB implements repository.GroupRepository. Every query is scoped by
// the owning user's id; a group is invisible to anyone but its owner.
type GroupDB struct {
	conn *sql.DB
}

var _ repository.GroupRepository = (*GroupDB)(nil)

func (g *GroupDB) Create(ctx context.Context, group *model.UserGroup) error {
	group.CreatedAt = time.Now().UTC()

	res, err := g.conn.ExecContext(ctx,
		`INSERT INTO user_groups (user_id, name, is_default, created_at)
		 VALUES (?, ?, ?, ?)`,
		group.UserID,
		group.Name,
		group.IsDefault,
		group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating group for user %d: %w", group.UserID, err)
	}

	group.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new group id: %w", err)
	}

	return nil
}

// Rename updates the group's name for the given owner. Returns rows matched;
// zero means no such group for this owner, never someone else's group.
func (g *GroupDB) Rename(ctx context.Context, ownerID, groupID int64, name string) (int64, error) {
	res, err := g.conn.ExecContext(ctx,
		`UPDATE user_groups
		 SET name = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		name,
		groupID,
		ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: renaming group %d: %w", groupID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}

func (g *GroupDB) GetByID(ctx context.Context, ownerID, groupID int64) (*model.UserGroup, error) {
	var group model.UserGroup

	err := g.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, is_default, created_at, deleted_at
		 FROM user_groups
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		groupID,
		ownerID,
	).Scan(
		&group.ID,
		&group.UserID,
		&group.Name,
		&group.IsDefault,
		&group.CreatedAt,
		&group.DeletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", groupID)
		}
		return nil, fmt.Errorf("sqlite: getting group %d: %w", groupID, err)
	}

	return &group, nil
}

func (g *GroupDB) HasDefault(ctx context.Context, ownerID int64) (bool, error) {
	var one int
	err := g.conn.QueryRowContext(ctx,
		`SELECT 1 FROM user_groups
		 WHERE user_id = ? AND is_default = 1 AND deleted_at IS NULL
		 LIMIT 1`,
		ownerID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking default group for user %d: %w", ownerID, err)
	}
	return true, nil
}

// defaultGroupID returns the owner's non-deleted default group id, or a
// not-found error when none exists. Shared with UserPlantDB for the
// group-fallback on plant creation.
func defaultGroupID(ctx context.Context, q queryer, ownerID int64) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		`SELECT id FROM user_groups
		 WHERE user_id = ? AND is_default = 1 AND deleted_at IS NULL
		 LIMIT 1`,
		ownerID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, apperror.NotFoundMessage("No default group for user")
	}
	if err != nil {
		return 0, fmt.Errorf("sqlite: getting default group for user %d: %w", ownerID, err)
	}
	return id, nil
}

// queryer is the subset of sql.DB/sql.Tx used by shared query helpers.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListDashboard returns the owner's non-deleted groups, default first then
// alphabetical, each with its non-deleted plants and their catalog entries
// fully joined. Two queries, assembled in memory without lazy loading.
func (g *GroupDB) ListDashboard(ctx context.Context, ownerID int64) ([]model.DashboardGroup, error) {
	rows, err := g.conn.QueryContext(ctx,
		`SELECT id, name, is_default, created_at
		 FROM user_groups
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY is_default DESC, name ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	var groups []model.DashboardGroup
	index := make(map[int64]int) // group id -> position in groups
	for rows.Next() {
		var grp model.DashboardGroup
		if err := rows.Scan(&grp.ID, &grp.Name, &grp.IsDefault, &grp.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group row: %w", err)
		}
		grp.Plants = []model.UserPlantInfo{}
		index[grp.ID] = len(groups)
		groups = append(groups, grp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}

	plantRows, err := g.conn.QueryContext(ctx,
		`SELECT up.user_group_id, up.id, up.nickname, up."order", up.count,
		        up.image_path, up.last_watered,
		        p.id, p.name, p.scientific_name, p.type, p.watering_freq,
		        p.watering_period, p.watering_time, p.sun_requirement,
		        p.external_link, p.created_at
		 FROM user_plants up
		 JOIN plants p ON p.id = up.plant_id
		 WHERE up.user_id = ? AND up.deleted_at IS NULL
		 ORDER BY up."order" ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing plants for user %d: %w", ownerID, err)
	}
	defer plantRows.Close()

	for plantRows.Next() {
		var groupID int64
		var info model.UserPlantInfo
		if err := plantRows.Scan(
			&groupID, &info.ID, &info.Nickname, &info.Order, &info.Count,
			&info.ImagePath, &info.LastWatered,
			&info.PlantData.ID, &info.PlantData.Name, &info.PlantData.ScientificName,
			&info.PlantData.Type, &info.PlantData.WateringFreq,
			&info.PlantData.WateringPeriod, &info.PlantData.WateringTime,
			&info.PlantData.SunRequirement, &info.PlantData.ExternalLink,
			&info.PlantData.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user plant row: %w", err)
		}
		if pos, ok := index[groupID]; ok {
			groups[pos].Plants = append(groups[pos].Plants, info)
		}
		// Plants in a deleted group are silently omitted from the
		// dashboard until regrouped.
	}
	if err := plantRows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user plants: %w", err)
	}

	return groups, nil
}
