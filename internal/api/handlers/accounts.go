package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/summary"
)

// AccountsHandler serves the wallet list and mutations. Balances in list
// responses are derived from the mirrored transactions at render time.
type AccountsHandler struct {
	syncer *datasync.Syncer
	log    zerolog.Logger
}

func NewAccountsHandler(syncer *datasync.Syncer, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{syncer: syncer, log: log}
}

type accountView struct {
	domain.Account
	Balance domain.Money `json:"balance"`
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts := h.syncer.Accounts()
	txs := h.syncer.Transactions()

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView{
			Account: a,
			Balance: summary.AccountBalance(txs, a.ID),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": views,
		"count":    len(views),
		"loading":  h.syncer.Loading(),
	})
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.AddAccount(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /api/accounts/{id}
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var in domain.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.UpdateAccount(r.Context(), id, in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/accounts/{id}
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.syncer.DeleteAccount(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
