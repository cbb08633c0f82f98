package model

import "time"

// UserGroup is a user-owned bucket of plants. Every user has exactly one
// non-deleted default group, created at registration; it receives plants
// whose create request names no group. Groups are soft-deleted.
type UserGroup struct {
	ID        int64      `json:"id"         db:"id"`
	UserID    int64      `json:"-"          db:"user_id"`
	Name      string     `json:"name"       db:"name"`
	IsDefault bool       `json:"is_default" db:"is_default"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"-"          db:"deleted_at"`
}

// UserPlant is one plant (or several of the same kind, via Count) owned by a
// user. Order is a dense per-user ranking assigned as max(order)+1 on
// creation. Rows are soft-deleted.
type UserPlant struct {
	ID          int64      `json:"id"            db:"id"`
	UserID      int64      `json:"-"             db:"user_id"`
	PlantID     int64      `json:"plant_id"      db:"plant_id"`
	Nickname    string     `json:"nickname"      db:"nickname"`
	Count       int        `json:"count"         db:"count"`
	Order       int        `json:"order"         db:"order"`
	ImagePath   string     `json:"image_path"    db:"image_path"`
	UserGroupID int64      `json:"user_group_id" db:"user_group_id"`
	LastWatered *time.Time `json:"last_watered"  db:"last_watered"`
	CreatedAt   time.Time  `json:"created_at"    db:"created_at"`
	DeletedAt   *time.Time `json:"-"             db:"deleted_at"`
}

// UserPlantUpdate carries a partial update for a user plant. Nil fields are
// left untouched.
type UserPlantUpdate struct {
	Nickname    *string `json:"nickname"`
	Order       *int    `json:"order"`
	Count       *int    `json:"count"`
	ImagePath   *string `json:"image_path"`
	UserGroupID *int64  `json:"user_group_id"`
}

// UserPlantInfo is a user plant with its catalog entry already joined in.
// Repositories return these fully materialized; there is no lazy loading.
type UserPlantInfo struct {
	ID          int64      `json:"id"`
	Nickname    string     `json:"nickname"`
	Order       int        `json:"order"`
	Count       int        `json:"count"`
	ImagePath   string     `json:"image_path"`
	LastWatered *time.Time `json:"last_watered"`
	PlantData   Plant      `json:"plant_data"`
}

// DashboardGroup is one group on the user's dashboard with its non-deleted
// plants nested.
type DashboardGroup struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	IsDefault bool            `json:"is_default"`
	CreatedAt time.Time       `json:"created_at"`
	Plants    []UserPlantInfo `json:"plants"`
}

// UserPlantNote is a free-text note attached to a user plant.
type UserPlantNote struct {
	ID          int64      `json:"id"         db:"id"`
	UserID      int64      `json:"-"          db:"user_id"`
	UserPlantID int64      `json:"-"          db:"user_plant_id"`
	Note        string     `json:"note"       db:"note"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time `json:"-"          db:"deleted_at"`
}
