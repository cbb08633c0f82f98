package handler

import (
	"log/slog"
	"net/http"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/service"
)

// AuthHandler serves the token endpoints: login and refresh.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// HandleLogin issues an access/refresh token pair.
//
// HTTP: POST /api/auth/login/
// Body: form-encoded username and password (OAuth2 password-flow shape).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid form body"))
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, apperror.ValidationFailed("", "username and password are required"))
		return
	}

	pair, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// HandleRefresh exchanges a refresh token for a new access token.
//
// HTTP: GET /api/auth/refresh/?token=<refresh token>
// The token travels as a raw query value, not a bearer header. The caller
// is here precisely because its access token may be expired.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, apperror.InvalidCredential())
		return
	}

	access, err := h.auth.Refresh(token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": access,
		"token_type":   "Bearer",
		"status":       http.StatusOK,
	})
}
