package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

// NoteDB implements repository.NoteRepository.
type NoteDB struct {
	conn *sql.DB
}

var _ repository.NoteRepository = (*NoteDB)(nil)

func (n *NoteDB) Create(ctx context.Context, note *model.UserPlantNote) error {
	note.CreatedAt = time.Now().UTC()

	res, err := n.conn.ExecContext(ctx,
		`INSERT INTO user_plant_notes (user_id, user_plant_id, note, created_at)
		 VALUES (?, ?, ?, ?)`,
		note.UserID,
		note.UserPlantID,
		note.Note,
		note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note for plant %d: %w", note.UserPlantID, err)
	}

	note.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new note id: %w", err)
	}

	return nil
}

// ListByPlant returns the owner's non-deleted notes for a plant, newest
// first. Notes on a plant the owner doesn't hold come back as an empty
// list, indistinguishable from a plant without notes.
func (n *NoteDB) ListByPlant(ctx context.Context, ownerID, plantID int64) ([]model.UserPlantNote, error) {
	rows, err := n.conn.QueryContext(ctx,
		`SELECT id, user_id, user_plant_id, note, created_at
		 FROM user_plant_notes
		 WHERE user_plant_id = ? AND user_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		plantID,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes for plant %d: %w", plantID, err)
	}
	defer rows.Close()

	notes := []model.UserPlantNote{}
	for rows.Next() {
		var note model.UserPlantNote
		if err := rows.Scan(&note.ID, &note.UserID, &note.UserPlantID, &note.Note, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}
