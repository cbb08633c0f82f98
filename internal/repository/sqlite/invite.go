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

// InviteDB implements repository.InviteRepository.
//
// Invite codes are write-once: no update, no delete, no consumption marker.
// A code issued for a username stays matchable forever.
type InviteDB struct {
	conn *sql.DB
}

var _ repository.InviteRepository = (*InviteDB)(nil)

func (i *InviteDB) Create(ctx context.Context, invite *model.InviteCode) error {
	invite.CreatedAt = time.Now().UTC()

	res, err := i.conn.ExecContext(ctx,
		`INSERT INTO user_invite_codes (username, invite_code, created_at)
		 VALUES (?, ?, ?)`,
		invite.Username,
		invite.Code,
		invite.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating invite for %q: %w", invite.Username, err)
	}

	invite.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new invite id: %w", err)
	}

	return nil
}

func (i *InviteDB) GetByUsername(ctx context.Context, username string) (*model.InviteCode, error) {
	var invite model.InviteCode

	err := i.conn.QueryRowContext(ctx,
		`SELECT id, username, invite_code, created_at
		 FROM user_invite_codes
		 WHERE username = ?`,
		username,
	).Scan(
		&invite.ID,
		&invite.Username,
		&invite.Code,
		&invite.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMessage("No invite for username")
		}
		return nil, fmt.Errorf("sqlite: getting invite for %q: %w", username, err)
	}

	return &invite, nil
}

func (i *InviteDB) List(ctx context.Context) ([]model.InviteCode, error) {
	rows, err := i.conn.QueryContext(ctx,
		`SELECT id, username, invite_code, created_at
		 FROM user_invite_codes
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing invites: %w", err)
	}
	defer rows.Close()

	var invites []model.InviteCode
	for rows.Next() {
		var invite model.InviteCode
		if err := rows.Scan(&invite.ID, &invite.Username, &invite.Code, &invite.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning invite row: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating invites: %w", err)
	}

	return invites, nil
}
