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

// AccountsHandler handles account CRUD endpoints.
type AccountsHandler struct {
	store infra.Store
	log   zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(store infra.Store, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{store: store, log: log}
}

// List handles GET /api/accounts
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	rows, err := h.store.ListAccountsByUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	accounts := accountRowsToResponse(rows)
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// Create handles POST /api/accounts
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		Name              string          `json:"name"`
		InitialBalance    decimal.Decimal `json:"initial_balance"`
		TrackingStartDate string          `json:"tracking_start_date"`
		Color             string          `json:"color"`
		IconURL           string          `json:"icon_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	trackingStart := time.Now().UTC()
	if req.TrackingStartDate != "" {
		parsed, err := parseDate(req.TrackingStartDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		trackingStart = parsed
	}

	account := &domain.Account{
		UserID:            userID,
		Name:              req.Name,
		InitialBalance:    req.InitialBalance,
		TrackingStartDate: trackingStart,
		Color:             req.Color,
		IconURL:           req.IconURL,
		CreatedTS:         time.Now().UTC(),
	}

	id, err := h.store.InsertAccount(ctx, infra.AccountRowFromDomain(account))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.log.Info().Str("account_id", id).Str("user_id", userID).Msg("Account created")
	middleware.WriteJSON(w, http.StatusCreated, map[string]string{"account_id": id})
}

// Get handles GET /api/accounts/{id}
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request, accountID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	row, err := h.store.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to get account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get account")
		return
	}
	if row == nil {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, accountToResponse(row.ToDomain()))
}

// Update handles PUT /api/accounts/{id}. Only display attributes can change;
// initial balance and tracking start are fixed at creation.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request, accountID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req struct {
		Name    string `json:"name"`
		Color   string `json:"color"`
		IconURL string `json:"icon_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.store.UpdateAccountDisplay(ctx, userID, accountID, req.Name, req.Color, req.IconURL); err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to update account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"account_id": accountID, "status": "updated"})
}

// Delete handles DELETE /api/accounts/{id}. Removing the account also
// removes its transactions and snapshots.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request, accountID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	if err := h.store.DeleteAccountCascade(ctx, userID, accountID); err != nil {
		h.log.Error().Err(err).Str("account_id", accountID).Msg("Failed to delete account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	h.log.Info().Str("account_id", accountID).Str("user_id", userID).Msg("Account deleted")
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"account_id": accountID, "status": "deleted"})
}
