package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/api/middleware"
	"github.com/wchaiyo/pocketledger/internal/datasync"
	"github.com/wchaiyo/pocketledger/internal/domain"
)

// CategoriesHandler serves the category list and mutations.
type CategoriesHandler struct {
	syncer *datasync.Syncer
	log    zerolog.Logger
}

func NewCategoriesHandler(syncer *datasync.Syncer, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{syncer: syncer, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	cats := h.syncer.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": cats,
		"count":      len(cats),
		"loading":    h.syncer.Loading(),
	})
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.AddCategory(r.Context(), in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rec)
}

// Update handles PUT /api/categories/{id}
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var in domain.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.syncer.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeOpError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.syncer.DeleteCategory(r.Context(), id); err != nil {
		writeOpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
