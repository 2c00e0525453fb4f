// Package handlers exposes the data-sync layer over HTTP. Handlers are pure
// consumers: they decode requests, call the syncer, and render its state.
package handlers

import (
	"errors"
	"net/http"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/store"
)

// writeOpError maps a syncer error onto an HTTP status. Store failures pass
// through with their own message; nothing is swallowed.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, datasync.ErrNotAuthenticated):
		middleware.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrProtectedCategory):
		middleware.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, err.Error())
	case isValidationError(err):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func isValidationError(err error) bool {
	for _, v := range []error{
		domain.ErrInvalidKind,
		domain.ErrInvalidAmount,
		domain.ErrZeroDate,
		domain.ErrEmptyCategoryName,
		domain.ErrEmptyIcon,
		domain.ErrEmptyColor,
		domain.ErrAccountNameTooShort,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
