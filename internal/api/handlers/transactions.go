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

// TransactionsHandler handles transaction CRUD endpoints.
type TransactionsHandler struct {
	store infra.Store
	log   zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store infra.Store, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, log: log}
}

// List handles GET /api/transactions. With start_date/end_date query
// parameters it returns the range; without them, everything.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	query := r.URL.Query()

	var (
		rows []*infra.TransactionRow
		err  error
	)

	startStr, endStr := query.Get("start_date"), query.Get("end_date")
	if startStr != "" || endStr != "" {
		startDate := time.Now().UTC().AddDate(-1, 0, 0)
		endDate := time.Now().UTC()
		if startStr != "" {
			if startDate, err = parseDate(startStr); err != nil {
				middleware.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		if endStr != "" {
			if endDate, err = parseDate(endStr); err != nil {
				middleware.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		rows, err = h.store.QueryTransactionsByDateRange(ctx, userID, startDate, endDate)
	} else {
		rows, err = h.store.ListTransactionsByUser(ctx, userID)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, transactionRowsToResponse(rows))
}

type transactionRequest struct {
	AccountID    string          `json:"account_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	CategoryName string          `json:"category_name"`
	Date         string          `json:"date"`
}

func (req *transactionRequest) toDomain(userID string) (*domain.Transaction, string) {
	if req.AccountID == "" {
		return nil, "account_id is required"
	}
	txType := domain.TransactionType(req.Type)
	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		return nil, "type must be \"income\" or \"expense\""
	}
	if !req.Amount.IsPositive() {
		return nil, "amount must be positive"
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err.Error()
	}

	category := req.CategoryName
	if category == "" {
		category = domain.FallbackCategoryName
	}

	return &domain.Transaction{
		UserID:       userID,
		AccountID:    req.AccountID,
		Type:         txType,
		Amount:       req.Amount,
		Description:  req.Description,
		CategoryName: category,
		Date:         date,
		CreatedTS:    time.Now().UTC(),
	}, ""
}

// Create handles POST /api/transactions. The body is either a single
// transaction object or an array of them, so reviewed receipt candidates
// can be inserted in one request.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var reqs []transactionRequest
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &reqs); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		var single transactionRequest
		if err := json.Unmarshal(raw, &single); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		reqs = []transactionRequest{single}
	}
	if len(reqs) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No transactions in request")
		return
	}

	rows := make([]*infra.TransactionRow, 0, len(reqs))
	for i := range reqs {
		tx, msg := reqs[i].toDomain(userID)
		if msg != "" {
			middleware.WriteError(w, http.StatusBadRequest, msg)
			return
		}
		// Reject transactions against accounts the user does not own.
		account, err := h.store.GetAccountByID(ctx, userID, tx.AccountID)
		if err != nil {
			h.log.Error().Err(err).Str("account_id", tx.AccountID).Msg("Failed to check account")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transactions")
			return
		}
		if account == nil {
			middleware.WriteError(w, http.StatusBadRequest, "Unknown account: "+tx.AccountID)
			return
		}
		rows = append(rows, infra.TransactionRowFromDomain(tx))
	}

	if err := h.store.InsertTransactions(ctx, rows); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create transactions")
		return
	}

	h.log.Info().Int("count", len(rows)).Str("user_id", userID).Msg("Transactions created")
	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"count":  len(rows),
		"status": "created",
	})
}

// Update handles PUT /api/transactions/{id}
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, transactionID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, msg := req.toDomain(userID)
	if msg != "" {
		middleware.WriteError(w, http.StatusBadRequest, msg)
		return
	}
	tx.ID = transactionID

	if err := h.store.UpdateTransaction(ctx, infra.TransactionRowFromDomain(tx)); err != nil {
		h.log.Error().Err(err).Str("transaction_id", transactionID).Msg("Failed to update transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"transaction_id": transactionID, "status": "updated"})
}

// Delete handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, transactionID string) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	if err := h.store.DeleteTransaction(ctx, userID, transactionID); err != nil {
		h.log.Error().Err(err).Str("transaction_id", transactionID).Msg("Failed to delete transaction")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"transaction_id": transactionID, "status": "deleted"})
}
