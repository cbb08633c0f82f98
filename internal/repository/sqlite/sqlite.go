// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The driver is modernc.org/sqlite, a pure Go translation of SQLite, so no
// C toolchain is needed and tests can run against ":memory:" databases.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. Entity repositories are exposed through
// the accessor methods (Users, Invites, ...); they all share this pool.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight; foreign keys
	// are off by default in SQLite and we rely on them.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this pool.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Invites returns the invite-code repository.
func (db *DB) Invites() *InviteDB { return &InviteDB{conn: db.conn} }

// Plants returns the catalog plant repository.
func (db *DB) Plants() *PlantDB { return &PlantDB{conn: db.conn} }

// Groups returns the user-group repository.
func (db *DB) Groups() *GroupDB { return &GroupDB{conn: db.conn} }

// UserPlants returns the user-plant repository.
func (db *DB) UserPlants() *UserPlantDB { return &UserPlantDB{conn: db.conn} }

// Notes returns the plant-note repository.
func (db *DB) Notes() *NoteDB { return &NoteDB{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// "order" is a SQLite keyword, hence the quoting wherever user_plants.order
// appears.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			username        TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			admin           INTEGER NOT NULL DEFAULT 0,
			created_at      DATETIME NOT NULL,
			last_seen       DATETIME
		);

		CREATE TABLE IF NOT EXISTS user_invite_codes (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			username    TEXT NOT NULL,
			invite_code TEXT NOT NULL UNIQUE,
			created_at  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_invite_codes_username ON user_invite_codes(username);

		CREATE TABLE IF NOT EXISTS plants (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			name            TEXT NOT NULL,
			scientific_name TEXT NOT NULL DEFAULT '',
			type            TEXT NOT NULL DEFAULT '',
			watering_freq   INTEGER NOT NULL DEFAULT 0,
			watering_period TEXT NOT NULL DEFAULT '',
			watering_time   TEXT NOT NULL DEFAULT '',
			sun_requirement TEXT NOT NULL DEFAULT '',
			external_link   TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_groups (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			name       TEXT NOT NULL DEFAULT '',
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			deleted_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_user_groups_user_id ON user_groups(user_id);

		CREATE TABLE IF NOT EXISTS user_plants (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       INTEGER NOT NULL REFERENCES users(id),
			plant_id      INTEGER NOT NULL REFERENCES plants(id),
			nickname      TEXT NOT NULL DEFAULT '',
			count         INTEGER NOT NULL DEFAULT 1,
			"order"       INTEGER NOT NULL,
			image_path    TEXT NOT NULL DEFAULT '',
			user_group_id INTEGER NOT NULL REFERENCES user_groups(id),
			last_watered  DATETIME,
			created_at    DATETIME NOT NULL,
			deleted_at    DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_user_plants_user_id ON user_plants(user_id);
		CREATE INDEX IF NOT EXISTS idx_user_plants_group_id ON user_plants(user_group_id);

		CREATE TABLE IF NOT EXISTS user_plant_notes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id       INTEGER NOT NULL REFERENCES users(id),
			user_plant_id INTEGER NOT NULL REFERENCES user_plants(id),
			note          TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			deleted_at    DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_user_plant_notes_plant_id ON user_plant_notes(user_plant_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
