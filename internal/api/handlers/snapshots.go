package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/domain"
	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
)

// SnapshotsHandler handles balance snapshot endpoints.
type SnapshotsHandler struct {
	store infra.Store
	log   zerolog.Logger
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(store infra.Store, log zerolog.Logger) *SnapshotsHandler {
	return &SnapshotsHandler{store: store, log: log}
}

// List handles GET /api/snapshots
func (h *SnapshotsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	rows, err := h.store.ListSnapshotsByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	snapshots := snapshotRowsToResponse(rows)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// Upsert handles POST /api/snapshots. A second snapshot for the same
// account and day replaces the first; there is at most one per day.
func (h *SnapshotsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		AccountID string          `json:"account_id"`
		Date      string          `json:"date"`
		Balance   decimal.Decimal `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if date.After(time.Now().UTC()) {
		middleware.WriteError(w, http.StatusBadRequest, "Snapshot date cannot be in the future")
		return
	}

	account, err := h.store.GetAccountByID(ctx, userID, req.AccountID)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", req.AccountID).Msg("Failed to check account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save snapshot")
		return
	}
	if account == nil {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown account: "+req.AccountID)
		return
	}

	snapshot := &domain.BalanceSnapshot{
		UserID:    userID,
		AccountID: req.AccountID,
		Date:      date,
		Balance:   req.Balance,
	}

	id, err := h.store.UpsertSnapshot(ctx, infra.SnapshotRowFromDomain(snapshot))
	if err != nil {
		h.log.Error().Err(err).Str("account_id", req.AccountID).Msg("Failed to upsert snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save snapshot")
		return
	}

	h.log.Info().Str("snapshot_id", id).Str("account_id", req.AccountID).Msg("Snapshot saved")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"snapshot_id": id, "status": "saved"})
}

// Delete handles DELETE /api/snapshots/{id}
func (h *SnapshotsHandler) Delete(w http.ResponseWriter, r *http.Request, snapshotID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	if err := h.store.DeleteSnapshot(ctx, userID, snapshotID); err != nil {
		h.log.Error().Err(err).Str("snapshot_id", snapshotID).Msg("Failed to delete snapshot")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"snapshot_id": snapshotID, "status": "deleted"})
}
