package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
)

func TestUserPlantCreate_OrderSequence(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")

	for want := 1; want <= 4; want++ {
		plant := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)
		if plant.Order != want {
			t.Fatalf("plant %d assigned order %d, want %d", want, plant.Order, want)
		}
	}
}

func TestUserPlantCreate_OrderIsPerUser(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	aliceGroup := createTestGroup(t, db, alice.ID, "My Plants", true)
	bobGroup := createTestGroup(t, db, bob.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")

	createTestUserPlant(t, db, alice.ID, catalog.ID, aliceGroup.ID)
	createTestUserPlant(t, db, alice.ID, catalog.ID, aliceGroup.ID)

	bobPlant := createTestUserPlant(t, db, bob.ID, catalog.ID, bobGroup.ID)
	if bobPlant.Order != 1 {
		t.Fatalf("bob's first plant assigned order %d, want 1", bobPlant.Order)
	}
}

func TestUserPlantCreate_DefaultGroupFallback(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	def := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")

	// UserGroupID zero means "use the default group".
	plant := createTestUserPlant(t, db, user.ID, catalog.ID, 0)
	if plant.UserGroupID != def.ID {
		t.Fatalf("UserGroupID = %d, want default group %d", plant.UserGroupID, def.ID)
	}
	if plant.Count != 1 {
		t.Errorf("Count = %d, want default 1", plant.Count)
	}
}

func TestUserPlantCreate_NoDefaultGroup(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	catalog := createTestPlant(t, db, "Monstera")

	plant := &model.UserPlant{UserID: user.ID, PlantID: catalog.ID}
	err := db.UserPlants().Create(context.Background(), plant)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Create() without a default group error = %v, want ErrNotFound", err)
	}
}

func TestUserPlantGetByID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)

	info, err := db.UserPlants().GetByID(context.Background(), user.ID, plant.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if info.PlantData.Name != "Monstera" {
		t.Errorf("PlantData.Name = %q, want Monstera", info.PlantData.Name)
	}
	if info.LastWatered != nil {
		t.Errorf("LastWatered = %v for a fresh plant, want nil", info.LastWatered)
	}
}

func TestUserPlantGetByID_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	group := createTestGroup(t, db, alice.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, alice.ID, catalog.ID, group.ID)

	_, err := db.UserPlants().GetByID(context.Background(), bob.ID, plant.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() with wrong owner error = %v, want ErrNotFound", err)
	}
}

func TestUserPlantUpdate_PartialFields(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)

	nickname := "Monty"
	count := 3
	affected, err := db.UserPlants().Update(context.Background(), user.ID, plant.ID,
		model.UserPlantUpdate{Nickname: &nickname, Count: &count})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if affected != 1 {
		t.Fatalf("Update() affected = %d, want 1", affected)
	}

	info, _ := db.UserPlants().GetByID(context.Background(), user.ID, plant.ID)
	if info.Nickname != "Monty" || info.Count != 3 {
		t.Errorf("after update: nickname=%q count=%d", info.Nickname, info.Count)
	}
	// Untouched fields keep their values.
	if info.Order != plant.Order {
		t.Errorf("Order = %d changed by a partial update", info.Order)
	}
}

func TestUserPlantUpdate_NoFields(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	_, err := db.UserPlants().Update(context.Background(), user.ID, 1, model.UserPlantUpdate{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Update() with no fields error = %v, want ErrValidation", err)
	}
}

func TestUserPlantUpdate_WrongOwnerMatchesNothing(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	group := createTestGroup(t, db, alice.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, alice.ID, catalog.ID, group.ID)

	nickname := "Hijacked"
	affected, err := db.UserPlants().Update(context.Background(), bob.ID, plant.ID,
		model.UserPlantUpdate{Nickname: &nickname})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if affected != 0 {
		t.Fatalf("Update() by wrong owner affected = %d, want 0", affected)
	}
}

func TestUserPlantSoftDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)

	affected, err := db.UserPlants().SoftDelete(context.Background(), user.ID, plant.ID)
	if err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if affected != 1 {
		t.Fatalf("SoftDelete() affected = %d, want 1", affected)
	}

	// A deleted plant is gone from lookup.
	if _, err := db.UserPlants().GetByID(context.Background(), user.ID, plant.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again matches nothing.
	affected, err = db.UserPlants().SoftDelete(context.Background(), user.ID, plant.ID)
	if err != nil {
		t.Fatalf("second SoftDelete() error = %v", err)
	}
	if affected != 0 {
		t.Errorf("second SoftDelete() affected = %d, want 0", affected)
	}
}

func TestUserPlantWater(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	p1 := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)
	p2 := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)

	watered, err := db.UserPlants().Water(context.Background(), user.ID, []int64{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("Water() error = %v", err)
	}
	if watered != 2 {
		t.Fatalf("Water() = %d, want 2", watered)
	}

	info, _ := db.UserPlants().GetByID(context.Background(), user.ID, p1.ID)
	if info.LastWatered == nil {
		t.Error("LastWatered still nil after watering")
	}
}

func TestUserPlantWater_SkipsForeignAndUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	aliceGroup := createTestGroup(t, db, alice.ID, "My Plants", true)
	bobGroup := createTestGroup(t, db, bob.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")

	alicePlant := createTestUserPlant(t, db, alice.ID, catalog.ID, aliceGroup.ID)
	bobPlant := createTestUserPlant(t, db, bob.ID, catalog.ID, bobGroup.ID)

	watered, err := db.UserPlants().Water(context.Background(), alice.ID,
		[]int64{alicePlant.ID, bobPlant.ID, 9999})
	if err != nil {
		t.Fatalf("Water() error = %v", err)
	}
	if watered != 1 {
		t.Fatalf("Water() = %d, want 1 (only alice's own plant)", watered)
	}

	info, _ := db.UserPlants().GetByID(context.Background(), bob.ID, bobPlant.ID)
	if info.LastWatered != nil {
		t.Error("alice's request watered bob's plant")
	}
}

func TestUserPlantWater_EmptyList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")

	watered, err := db.UserPlants().Water(context.Background(), user.ID, nil)
	if err != nil {
		t.Fatalf("Water() error = %v", err)
	}
	if watered != 0 {
		t.Fatalf("Water(nil) = %d, want 0", watered)
	}
}
