package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

const MaxPlantNameLength = 255

// PlantService handles the shared plant catalog. Any authenticated user may
// add or edit catalog entries; there is no admin gate on the catalog.
type PlantService struct {
	plants repository.PlantRepository
	logger *slog.Logger
}

func NewPlantService(plants repository.PlantRepository, logger *slog.Logger) *PlantService {
	return &PlantService{plants: plants, logger: logger}
}

// Create validates and stores a new catalog plant.
func (s *PlantService) Create(ctx context.Context, plant *model.Plant) (*model.Plant, error) {
	plant.Name = strings.TrimSpace(plant.Name)
	if plant.Name == "" {
		return nil, apperror.ValidationFailed("name", "plant name is required")
	}
	if len(plant.Name) > MaxPlantNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("plant name must be %d characters or less", MaxPlantNameLength))
	}

	if err := s.plants.Create(ctx, plant); err != nil {
		s.logger.Error("failed to create plant",
			slog.String("name", plant.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating plant: %w", err)
	}

	s.logger.Info("plant created", slog.Int64("id", plant.ID), slog.String("name", plant.Name))
	return plant, nil
}

// Update replaces a catalog plant's fields.
func (s *PlantService) Update(ctx context.Context, plant *model.Plant) (*model.Plant, error) {
	plant.Name = strings.TrimSpace(plant.Name)
	if plant.Name == "" {
		return nil, apperror.ValidationFailed("name", "plant name is required")
	}

	affected, err := s.plants.Update(ctx, plant)
	if err != nil {
		return nil, fmt.Errorf("updating plant: %w", err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("plant", plant.ID)
	}

	return s.plants.GetByID(ctx, plant.ID)
}

// GetByID returns a catalog plant.
func (s *PlantService) GetByID(ctx context.Context, id int64) (*model.Plant, error) {
	return s.plants.GetByID(ctx, id)
}

// List returns catalog plants with pagination.
func (s *PlantService) List(ctx context.Context, limit, offset int) ([]model.Plant, error) {
	plants, err := s.plants.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	return plants, nil
}
