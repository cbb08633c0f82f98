package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/service"
)

// PlantHandler serves the shared plant catalog.
type PlantHandler struct {
	plants *service.PlantService
	logger *slog.Logger
}

func NewPlantHandler(plants *service.PlantService, logger *slog.Logger) *PlantHandler {
	return &PlantHandler{plants: plants, logger: logger}
}

// HandleCreate adds a catalog plant.
//
// HTTP: POST /api/plants/create/ (bearer)
func (h *PlantHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var plant model.Plant
	if err := json.NewDecoder(r.Body).Decode(&plant); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	created, err := h.plants.Create(r.Context(), &plant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

// HandleUpdate replaces a catalog plant's fields.
//
// HTTP: POST /api/plants/update/ (bearer)
func (h *PlantHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var plant model.Plant
	if err := json.NewDecoder(r.Body).Decode(&plant); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if plant.ID == 0 {
		writeError(w, apperror.ValidationFailed("id", "id is required"))
		return
	}

	updated, err := h.plants.Update(r.Context(), &plant)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleList returns catalog plants.
//
// HTTP: GET /api/plants/?skip=N&limit=M (bearer)
func (h *PlantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	plants, err := h.plants.List(r.Context(), limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plants)
}

// HandleGet returns one catalog plant.
//
// HTTP: GET /api/plants/{plant_id}/ (bearer)
func (h *PlantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "plant_id")
	if err != nil {
		writeError(w, err)
		return
	}

	plant, err := h.plants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plant)
}
