// Package repository defines the data-access contracts.
//
// Ownership scoping is the central discipline here: every operation on a
// user-owned row (groups, user plants, notes) takes the authenticated
// user's id and filters by it. A lookup with the wrong owner behaves exactly
// like a lookup for a row that does not exist.
package repository

import (
	"context"

	"github.com/plantyard/api/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// Create inserts a new user. Returns a conflict error when the
	// username is already registered.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	// UpdatePassword replaces the stored hash and reports how many rows
	// matched. Zero is not an error here; the caller decides.
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) (int64, error)
}

type InviteRepository interface {
	Create(ctx context.Context, invite *model.InviteCode) error
	// GetByUsername returns the stored invite for the username, or a
	// not-found error. Redeemed codes are still returned; invites carry
	// no consumption marker.
	GetByUsername(ctx context.Context, username string) (*model.InviteCode, error)
	List(ctx context.Context) ([]model.InviteCode, error)
}

type PlantRepository interface {
	Create(ctx context.Context, plant *model.Plant) error
	Update(ctx context.Context, plant *model.Plant) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Plant, error)
	List(ctx context.Context, opts ListOptions) ([]model.Plant, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *model.UserGroup) error
	// Rename updates the group's name, scoped by owner. Returns rows
	// matched.
	Rename(ctx context.Context, ownerID, groupID int64, name string) (int64, error)
	GetByID(ctx context.Context, ownerID, groupID int64) (*model.UserGroup, error)
	// HasDefault reports whether the owner has a non-deleted default
	// group.
	HasDefault(ctx context.Context, ownerID int64) (bool, error)
	// ListDashboard returns the owner's non-deleted groups, default group
	// first then alphabetical, each carrying its non-deleted plants with
	// catalog data joined.
	ListDashboard(ctx context.Context, ownerID int64) ([]model.DashboardGroup, error)
}

type UserPlantRepository interface {
	// Create inserts a plant for plant.UserID. Order is assigned as
	// max(order)+1 over the owner's plants (1 for the first). A zero
	// UserGroupID falls back to the owner's default group; a not-found
	// error is returned when the owner has none.
	Create(ctx context.Context, plant *model.UserPlant) error
	GetByID(ctx context.Context, ownerID, plantID int64) (*model.UserPlantInfo, error)
	// Update applies the non-nil fields, scoped by owner. Returns rows
	// matched.
	Update(ctx context.Context, ownerID, plantID int64, upd model.UserPlantUpdate) (int64, error)
	// SoftDelete marks the plant deleted, scoped by owner. Returns rows
	// matched.
	SoftDelete(ctx context.Context, ownerID, plantID int64) (int64, error)
	// Water sets last_watered to now on the owner's given plants. Ids the
	// owner doesn't hold are silently skipped; returns rows matched.
	Water(ctx context.Context, ownerID int64, plantIDs []int64) (int64, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.UserPlantNote) error
	// ListByPlant returns the owner's notes for a plant, newest first.
	ListByPlant(ctx context.Context, ownerID, plantID int64) ([]model.UserPlantNote, error)
}
