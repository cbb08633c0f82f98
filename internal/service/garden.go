package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

// GardenService handles everything a user owns: their plants, groups and
// notes. Every method takes the authenticated user's id and passes it down
// to the ownership-scoped repositories; there is no path to another user's
// rows.
type GardenService struct {
	groups repository.GroupRepository
	plants repository.UserPlantRepository
	notes  repository.NoteRepository
	logger *slog.Logger
}

func NewGardenService(
	groups repository.GroupRepository,
	plants repository.UserPlantRepository,
	notes repository.NoteRepository,
	logger *slog.Logger,
) *GardenService {
	return &GardenService{
		groups: groups,
		plants: plants,
		notes:  notes,
		logger: logger,
	}
}

// CreateGroup creates a plant group for the user. At most one non-deleted
// default group may exist per user; a second one is rejected.
func (s *GardenService) CreateGroup(ctx context.Context, ownerID int64, name string, isDefault bool) (*model.UserGroup, error) {
	if isDefault {
		has, err := s.groups.HasDefault(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("checking default group: %w", err)
		}
		if has {
			return nil, apperror.Conflict("User already has a default group")
		}
	}

	group := &model.UserGroup{
		UserID:    ownerID,
		Name:      name,
		IsDefault: isDefault,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		s.logger.Error("failed to create group",
			slog.Int64("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating group: %w", err)
	}

	s.logger.Info("group created", slog.Int64("userID", ownerID), slog.Int64("groupID", group.ID))
	return group, nil
}

// RenameGroup renames one of the user's groups.
func (s *GardenService) RenameGroup(ctx context.Context, ownerID, groupID int64, name string) error {
	affected, err := s.groups.Rename(ctx, ownerID, groupID, name)
	if err != nil {
		return fmt.Errorf("renaming group: %w", err)
	}
	if affected == 0 {
		return apperror.NotFoundMessage("Group not found for current user")
	}
	return nil
}

// Dashboard returns the user's groups with their plants nested, default
// group first then alphabetical.
func (s *GardenService) Dashboard(ctx context.Context, ownerID int64) ([]model.DashboardGroup, error) {
	groups, err := s.groups.ListDashboard(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}
	return groups, nil
}

// CreateUserPlant adds a catalog plant to the user's garden. The display
// order and the default-group fallback are resolved by the repository.
func (s *GardenService) CreateUserPlant(ctx context.Context, ownerID int64, plant *model.UserPlant) (*model.UserPlant, error) {
	if plant.PlantID == 0 {
		return nil, apperror.ValidationFailed("plant_id", "plant_id is required")
	}

	plant.UserID = ownerID
	if err := s.plants.Create(ctx, plant); err != nil {
		s.logger.Error("failed to create user plant",
			slog.Int64("userID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("user plant created",
		slog.Int64("userID", ownerID),
		slog.Int64("userPlantID", plant.ID),
		slog.Int("order", plant.Order),
	)
	return plant, nil
}

// GetUserPlant returns one of the user's plants, catalog data included.
func (s *GardenService) GetUserPlant(ctx context.Context, ownerID, plantID int64) (*model.UserPlantInfo, error) {
	return s.plants.GetByID(ctx, ownerID, plantID)
}

// UpdateUserPlant applies a partial update to one of the user's plants and
// returns the refreshed row.
func (s *GardenService) UpdateUserPlant(ctx context.Context, ownerID, plantID int64, upd model.UserPlantUpdate) (*model.UserPlantInfo, error) {
	affected, err := s.plants.Update(ctx, ownerID, plantID, upd)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperror.NotFound("user plant", plantID)
	}

	return s.plants.GetByID(ctx, ownerID, plantID)
}

// DeleteUserPlant soft-deletes one of the user's plants.
func (s *GardenService) DeleteUserPlant(ctx context.Context, ownerID, plantID int64) error {
	affected, err := s.plants.SoftDelete(ctx, ownerID, plantID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.NotFound("user plant", plantID)
	}

	s.logger.Info("user plant deleted", slog.Int64("userID", ownerID), slog.Int64("userPlantID", plantID))
	return nil
}

// WaterPlants stamps last_watered on the given plants. Ids the user doesn't
// own are skipped silently; watering nothing is not an error.
func (s *GardenService) WaterPlants(ctx context.Context, ownerID int64, plantIDs []int64) (int64, error) {
	watered, err := s.plants.Water(ctx, ownerID, plantIDs)
	if err != nil {
		return 0, err
	}

	s.logger.Info("plants watered",
		slog.Int64("userID", ownerID),
		slog.Int("requested", len(plantIDs)),
		slog.Int64("watered", watered),
	)
	return watered, nil
}

// AddNote attaches a note to one of the user's plants. The plant must exist
// and belong to the user.
func (s *GardenService) AddNote(ctx context.Context, ownerID, plantID int64, text string) (*model.UserPlantNote, error) {
	if text == "" {
		return nil, apperror.ValidationFailed("note", "note text is required")
	}

	// Confirm ownership before writing; the insert itself has no
	// cross-table guard.
	if _, err := s.plants.GetByID(ctx, ownerID, plantID); err != nil {
		return nil, err
	}

	note := &model.UserPlantNote{
		UserID:      ownerID,
		UserPlantID: plantID,
		Note:        text,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	return note, nil
}

// ListNotes returns the user's notes for a plant, newest first.
func (s *GardenService) ListNotes(ctx context.Context, ownerID, plantID int64) ([]model.UserPlantNote, error) {
	notes, err := s.notes.ListByPlant(ctx, ownerID, plantID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}
