package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/auth"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/service"
)

// GardenHandler serves the per-user garden: groups, tracked plants and notes.
// Every route requires a resolved identity; the owner id always comes from the
// token, never from the request body.
type GardenHandler struct {
	garden *service.GardenService
	logger *slog.Logger
}

func NewGardenHandler(garden *service.GardenService, logger *slog.Logger) *GardenHandler {
	return &GardenHandler{garden: garden, logger: logger}
}

func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredential())
	}
	return id, ok
}

// HandleDashboard returns the user's groups with their plants, default group
// first, plants in display order.
//
// HTTP: GET /api/userplants/ (bearer)
func (h *GardenHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	groups, err := h.garden.Dashboard(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, groups)
}

// HandleCreateUserPlant starts tracking a catalog plant for the user.
//
// HTTP: POST /api/userplants/create/ (bearer)
func (h *GardenHandler) HandleCreateUserPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var plant model.UserPlant
	if err := json.NewDecoder(r.Body).Decode(&plant); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	created, err := h.garden.CreateUserPlant(r.Context(), id.UserID, &plant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

// HandleGetUserPlant returns one tracked plant with its catalog data.
//
// HTTP: GET /api/userplants/{plant_id}/ (bearer)
func (h *GardenHandler) HandleGetUserPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	plantID, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	plant, err := h.garden.GetUserPlant(r.Context(), id.UserID, plantID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plant)
}

// HandleUpdateUserPlant applies a partial update to a tracked plant. Absent
// fields are left untouched.
//
// HTTP: POST /api/userplants/{plant_id}/update/ (bearer)
func (h *GardenHandler) HandleUpdateUserPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	plantID, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var upd model.UserPlantUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	plant, err := h.garden.UpdateUserPlant(r.Context(), id.UserID, plantID, upd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plant)
}

// HandleDeleteUserPlant soft-deletes a tracked plant.
//
// HTTP: DELETE /api/userplants/{plant_id}/delete/ (bearer)
func (h *GardenHandler) HandleDeleteUserPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	plantID, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.garden.DeleteUserPlant(r.Context(), id.UserID, plantID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User plant deleted successfully"})
}

// HandleWater stamps last_watered on the given plants. Ids the user doesn't
// own are skipped, so the returned count can be lower than requested.
//
// HTTP: POST /api/userplants/water/ (bearer)
func (h *GardenHandler) HandleWater(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req struct {
		PlantIDs []int64 `json:"plant_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	watered, err := h.garden.WaterPlants(r.Context(), id.UserID, req.PlantIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"plants_watered": watered})
}

// HandleAddNote attaches a note to one of the user's plants.
//
// HTTP: POST /api/userplants/{plant_id}/notes/ (bearer)
func (h *GardenHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	plantID, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	if _, err := h.garden.AddNote(r.Context(), id.UserID, plantID, req.Note); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note created successfully"})
}

// HandleListNotes returns the user's notes for a plant, newest first.
//
// HTTP: GET /api/userplants/{plant_id}/notes/ (bearer)
func (h *GardenHandler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	plantID, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.garden.ListNotes(r.Context(), id.UserID, plantID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleCreateGroup creates a plant group for the user. Only one default
// group is allowed per user.
//
// HTTP: POST /api/usergroups/create/ (bearer)
func (h *GardenHandler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name"`
		IsDefault bool   `json:"is_default"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	group, err := h.garden.CreateGroup(r.Context(), id.UserID, req.Name, req.IsDefault)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// HandleRenameGroup renames one of the user's groups.
//
// HTTP: POST /api/usergroups/{group_id}/update/ (bearer)
func (h *GardenHandler) HandleRenameGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "group_id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	if err := h.garden.RenameGroup(r.Context(), id.UserID, groupID, req.Name); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Group updated successfully"})
}
