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

// UserDB implements repository.UserRepository.
type UserDB struct {
	conn *sql.DB
}

var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user. The username's UNIQUE constraint is the final
// guard against duplicate registration; the service checks first, but a
// concurrent register for the same name still fails here with a conflict.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	res, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (username, hashed_password, admin, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Username,
		user.HashedPassword,
		user.Admin,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("sqlite: creating user %q: %w", user.Username,
				apperror.Conflict("Username already registered"))
		}
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}

	return nil
}

func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.get(ctx, `WHERE id = ?`, id)
}

func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.get(ctx, `WHERE username = ?`, username)
}

func (u *UserDB) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, hashed_password, admin, created_at, last_seen
		 FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.Admin,
		&user.CreatedAt,
		&user.LastSeen,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMessage("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}

	return &user, nil
}

func (u *UserDB) List(ctx context.Context, opts repository.ListOptions) ([]model.User, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := u.conn.QueryContext(ctx,
		`SELECT id, username, hashed_password, admin, created_at, last_seen
		 FROM users
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.HashedPassword,
			&user.Admin, &user.CreatedAt, &user.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// UpdatePassword replaces the stored hash. Returns the number of matched
// rows; zero means no such user, which is the caller's call to judge.
func (u *UserDB) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) (int64, error) {
	res, err := u.conn.ExecContext(ctx,
		`UPDATE users SET hashed_password = ? WHERE id = ?`,
		hashedPassword,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: updating password for user %d: %w", userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}
