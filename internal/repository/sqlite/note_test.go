package sqlite

import (
	"context"
	"testing"

	"github.com/plantyard/api/internal/model"
)

func addTestNote(t *testing.T, db *DB, userID, plantID int64, text string) *model.UserPlantNote {
	t.Helper()
	note := &model.UserPlantNote{
		UserID:      userID,
		UserPlantID: plantID,
		Note:        text,
	}
	if err := db.Notes().Create(context.Background(), note); err != nil {
		t.Fatalf("creating test note: %v", err)
	}
	return note
}

func TestNoteCreateAndList(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	group := createTestGroup(t, db, user.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, user.ID, catalog.ID, group.ID)

	note := addTestNote(t, db, user.ID, plant.ID, "new leaf unfurling")
	if note.ID == 0 {
		t.Fatal("Create() did not set note.ID")
	}

	notes, err := db.Notes().ListByPlant(context.Background(), user.ID, plant.ID)
	if err != nil {
		t.Fatalf("ListByPlant() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Note != "new leaf unfurling" {
		t.Errorf("ListByPlant() = %+v, want the one note", notes)
	}
}

func TestNoteList_OwnershipIsolation(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	group := createTestGroup(t, db, alice.ID, "My Plants", true)
	catalog := createTestPlant(t, db, "Monstera")
	plant := createTestUserPlant(t, db, alice.ID, catalog.ID, group.ID)

	addTestNote(t, db, alice.ID, plant.ID, "private observation")

	notes, err := db.Notes().ListByPlant(context.Background(), bob.ID, plant.ID)
	if err != nil {
		t.Fatalf("ListByPlant() error = %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("bob can read alice's notes: %+v", notes)
	}
	if notes == nil {
		t.Error("ListByPlant() returned nil, want empty non-nil slice")
	}
}
