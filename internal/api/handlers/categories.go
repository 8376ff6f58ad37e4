package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/domain"
	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	store infra.Store
	log   zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(store infra.Store, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{store: store, log: log}
}

// List handles GET /api/categories
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	rows, err := h.store.ListCategoriesByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	categories := categoryRowsToResponse(rows)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// Create handles POST /api/categories
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	id, err := h.store.InsertCategory(ctx, &infra.CategoryRow{
		UserID:    userID,
		Name:      req.Name,
		CreatedTS: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"category_id": id})
}

// Rename handles PUT /api/categories/{id}. Renaming rewrites the category
// name on every transaction that references it.
func (h *CategoriesHandler) Rename(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	existing, err := h.findCategory(r, categoryID)
	if err != nil {
		h.log.Error().Err(err).Str("category_id", categoryID).Msg("Failed to look up category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to rename category")
		return
	}
	if existing == nil {
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.store.RenameCategory(ctx, userID, categoryID, existing.Name, req.Name); err != nil {
		h.log.Error().Err(err).Str("category_id", categoryID).Msg("Failed to rename category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to rename category")
		return
	}

	h.log.Info().
		Str("category_id", categoryID).
		Str("old_name", existing.Name).
		Str("new_name", req.Name).
		Msg("Category renamed")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"category_id": categoryID, "status": "renamed"})
}

// Delete handles DELETE /api/categories/{id}. Transactions referencing the
// category are reassigned to the fallback category.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request, categoryID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	existing, err := h.findCategory(r, categoryID)
	if err != nil {
		h.log.Error().Err(err).Str("category_id", categoryID).Msg("Failed to look up category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if existing == nil {
		middleware.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}
	if existing.Name == domain.FallbackCategoryName {
		middleware.WriteError(w, http.StatusBadRequest, "The fallback category cannot be deleted")
		return
	}

	if err := h.store.DeleteCategory(ctx, userID, categoryID, existing.Name); err != nil {
		h.log.Error().Err(err).Str("category_id", categoryID).Msg("Failed to delete category")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"category_id": categoryID, "status": "deleted"})
}

func (h *CategoriesHandler) findCategory(r *http.Request, categoryID string) (*infra.CategoryRow, error) {
	ctx := r.Context()
	rows, err := h.store.ListCategoriesByUser(ctx, middleware.UserID(ctx))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.CategoryID == categoryID {
			return row, nil
		}
	}
	return nil, nil
}
