package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/identity"
	"github.com/wchaiyo/pocketledger/internal/store"
)

func TestWriteOpError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not authenticated", err: datasync.ErrNotAuthenticated, wantStatus: http.StatusUnauthorized},
		{name: "protected category", err: store.ErrProtectedCategory, wantStatus: http.StatusForbidden},
		{name: "not found", err: store.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid kind", err: domain.ErrInvalidKind, wantStatus: http.StatusBadRequest},
		{name: "invalid amount", err: domain.ErrInvalidAmount, wantStatus: http.StatusBadRequest},
		{name: "short account name", err: domain.ErrAccountNameTooShort, wantStatus: http.StatusBadRequest},
		{name: "wrapped sentinel", err: fmt.Errorf("update: %w", store.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "unknown error", err: errors.New("backend exploded"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeOpError(rr, tt.err)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if !strings.Contains(rr.Body.String(), `"error"`) {
				t.Errorf("body %q should carry an error field", rr.Body.String())
			}
		})
	}
}

func TestSessionHandler(t *testing.T) {
	ids := identity.NewManager()
	h := NewSessionHandler(ids, zerolog.Nop())

	// Sign in
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"user_id":"alice"}`))
	h.SignIn(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("SignIn status = %d, want 200", rr.Code)
	}
	if ids.CurrentUserID() != "alice" {
		t.Errorf("identity = %q after sign in, want alice", ids.CurrentUserID())
	}

	// Read back
	rr = httptest.NewRecorder()
	h.Get(rr, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	if !strings.Contains(rr.Body.String(), `"user_id":"alice"`) {
		t.Errorf("Get body = %q, want current user", rr.Body.String())
	}

	// Sign out
	rr = httptest.NewRecorder()
	h.SignOut(rr, httptest.NewRequest(http.MethodDelete, "/api/session", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("SignOut status = %d, want 204", rr.Code)
	}
	if ids.CurrentUserID() != "" {
		t.Errorf("identity = %q after sign out, want empty", ids.CurrentUserID())
	}
}

func TestSessionSignInRequiresUserID(t *testing.T) {
	h := NewSessionHandler(identity.NewManager(), zerolog.Nop())

	for _, body := range []string{``, `{}`, `{"user_id":""}`, `not json`} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(body))
		h.SignIn(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("SignIn(%q) status = %d, want 400", body, rr.Code)
		}
	}
}
