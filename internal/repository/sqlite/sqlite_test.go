package sqlite

import (
	"context"
	"testing"

	"github.com/plantyard/api/internal/model"
)

// newTestDB returns a DB backed by an in-memory SQLite database with the
// full schema migrated. Each call gets a fresh, isolated database.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser inserts a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		HashedPassword: "$2a$04$fakehashforrepositorytests",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %q: %v", username, err)
	}
	return user
}

// createTestGroup inserts a group for the user and fails the test on error.
func createTestGroup(t *testing.T, db *DB, userID int64, name string, isDefault bool) *model.UserGroup {
	t.Helper()
	group := &model.UserGroup{
		UserID:    userID,
		Name:      name,
		IsDefault: isDefault,
	}
	if err := db.Groups().Create(context.Background(), group); err != nil {
		t.Fatalf("creating test group %q: %v", name, err)
	}
	return group
}

// createTestPlant inserts a catalog plant and fails the test on error.
func createTestPlant(t *testing.T, db *DB, name string) *model.Plant {
	t.Helper()
	plant := &model.Plant{
		Name:           name,
		ScientificName: "Testus plantus",
		Type:           model.PlantTypeLeafyPlant,
		WateringFreq:   3,
		WateringPeriod: model.WateringPeriodDay,
		WateringTime:   model.WateringTimeMorning,
		SunRequirement: model.SunRequirementPartShade,
	}
	if err := db.Plants().Create(context.Background(), plant); err != nil {
		t.Fatalf("creating test plant %q: %v", name, err)
	}
	return plant
}

// createTestUserPlant tracks a catalog plant for the user. plant.UserGroupID
// zero triggers the default-group fallback, as in production.
func createTestUserPlant(t *testing.T, db *DB, userID, plantID, groupID int64) *model.UserPlant {
	t.Helper()
	plant := &model.UserPlant{
		UserID:      userID,
		PlantID:     plantID,
		UserGroupID: groupID,
	}
	if err := db.UserPlants().Create(context.Background(), plant); err != nil {
		t.Fatalf("creating test user plant: %v", err)
	}
	return plant
}
