package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/identity"
)

// SessionHandler switches the active identity. Real authentication lives
// outside this system; the handler only tells the identity manager who the
// session belongs to, which triggers the mirror rebuild.
type SessionHandler struct {
	ids *identity.Manager
	log zerolog.Logger
}

func NewSessionHandler(ids *identity.Manager, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{ids: ids, log: log}
}

// Get handles GET /api/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"user_id": h.ids.CurrentUserID(),
	})
}

// SignIn handles POST /api/session
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	h.ids.SignIn(body.UserID)
	h.log.Info().Str("user_id", body.UserID).Msg("Session started")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"user_id": body.UserID})
}

// SignOut handles DELETE /api/session
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.ids.SignOut()
	h.log.Info().Msg("Session ended")
	w.WriteHeader(http.StatusNoContent)
}
