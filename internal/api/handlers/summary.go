package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/summary"
)

// SummaryHandler serves monthly and yearly aggregates computed from the
// mirror.
type SummaryHandler struct {
	syncer *datasync.Syncer
	log    zerolog.Logger
}

func NewSummaryHandler(syncer *datasync.Syncer, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{syncer: syncer, log: log}
}

// Month handles GET /api/summary/month?year=2024&month=3
func (h *SummaryHandler) Month(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		middleware.WriteError(w, http.StatusBadRequest, "invalid month")
		return
	}

	txs := summary.ForMonth(h.syncer.Transactions(), year, time.Month(month))
	h.write(w, year, month, txs)
}

// Year handles GET /api/summary/year?year=2024
func (h *SummaryHandler) Year(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid year")
		return
	}

	txs := summary.ForYear(h.syncer.Transactions(), year)
	h.write(w, year, 0, txs)
}

func (h *SummaryHandler) write(w http.ResponseWriter, year, month int, txs []domain.Transaction) {
	resp := map[string]interface{}{
		"year":               year,
		"totals":             summary.Compute(txs),
		"expense_categories": summary.ByCategory(txs, domain.KindExpense),
		"income_categories":  summary.ByCategory(txs, domain.KindIncome),
		"accounts":           summary.ByAccount(txs),
		"transaction_count":  len(txs),
	}
	if month != 0 {
		resp["month"] = month
	}
	middleware.WriteJSON(w, http.StatusOK, resp)
}
