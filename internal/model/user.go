// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Registration is invite-gated: a user row is only ever created after the
// supplied invite code matched the one stored for the username. Users are
// never hard-deleted.
//
// HashedPassword is the full bcrypt output (salt and cost embedded) and is
// never serialized to JSON.
type User struct {
	ID             int64      `json:"id"         db:"id"`
	Username       string     `json:"username"   db:"username"`
	HashedPassword string     `json:"-"          db:"hashed_password"`
	Admin          bool       `json:"admin"      db:"admin"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	LastSeen       *time.Time `json:"last_seen"  db:"last_seen"` // nil until first tracked visit
}

// InviteCode is a one-time registration code issued for a username.
//
// Codes have no expiry and no consumption marker: after a successful
// registration the code remains matchable, and re-registration under the
// same username is blocked by the username uniqueness check alone.
type InviteCode struct {
	ID        int64     `json:"id"          db:"id"`
	Username  string    `json:"username"    db:"username"`
	Code      string    `json:"invite_code" db:"invite_code"`
	CreatedAt time.Time `json:"created_at"  db:"created_at"`
}
