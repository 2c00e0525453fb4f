package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/summary"
)

// maxImageSize caps receipt uploads at 10 MiB.
const maxImageSize = 10 << 20

// TransactionsHandler serves the transaction list and mutations.
type TransactionsHandler struct {
	syncer *datasync.Syncer
	log    zerolog.Logger
}

func NewTransactionsHandler(syncer *datasync.Syncer, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{syncer: syncer, log: log}
}

// List handles GET /api/transactions. Optional year and month query
// parameters narrow the result to a period.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.syncer.Transactions()

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid year")
			return
		}
		if monthStr := r.URL.Query().Get("month"); monthStr != "" {
			month, err := strconv.Atoi(monthStr)
			if err != nil || month < 1 || month > 12 {
				middleware.WriteError(w, http.StatusBadRequest, "invalid month")
				return
			}
			txs = summary.ForMonth(txs, year, time.Month(month))
		} else {
			txs = summary.ForYear(txs, year)
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
		"loading":      h.syncer.Loading(),
	})
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.AddTransaction(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var in domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.syncer.DeleteTransaction(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/transactions/image. The multipart field
// "image" is stored and its public URL returned; the caller then sets
// image_url on a create or update request.
func (h *TransactionsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	url, err := h.syncer.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Image upload failed")
		writeOpError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"image_url": url})
}
