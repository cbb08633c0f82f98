package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/auth"
	"github.com/plantyard/api/internal/service"
)

// UserHandler serves registration, account and invite endpoints.
type UserHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewUserHandler(auth *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, logger: logger}
}

// HandleRegister creates a new account from a username, an invite code and
// a password. A default group is created alongside the user.
//
// HTTP: POST /api/users/register/ (no auth)
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string `json:"username"`
		InviteCode string `json:"invite_code"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.InviteCode, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleMe returns the authenticated user's record.
//
// HTTP: GET /api/users/me/ (bearer)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredential())
		return
	}

	user, err := h.auth.GetUser(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleChangePassword changes the authenticated user's password after
// verifying the old one.
//
// HTTP: POST /api/users/me/changepassword/ (bearer)
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.InvalidCredential())
		return
	}

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	if err := h.auth.ChangePassword(r.Context(), id.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// HandleInvite issues an invite code for a username.
//
// HTTP: POST /api/users/invite/ (bearer)
func (h *UserHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	invite, err := h.auth.Invite(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invite)
}

// HandleListInvites lists every issued invite code.
//
// HTTP: GET /api/users/invites/ (bearer)
func (h *UserHandler) HandleListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.auth.ListInvites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invites)
}

// HandleList returns registered users.
//
// HTTP: GET /api/users/?skip=N&limit=M (bearer)
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	users, err := h.auth.ListUsers(r.Context(), limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleGet returns one user by id.
//
// HTTP: GET /api/users/{user_id}/ (bearer)
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// pathID parses a numeric id from a URL path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a positive integer")
	}
	return id, nil
}
