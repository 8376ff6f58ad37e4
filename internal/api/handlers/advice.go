package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/advisor"
	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/domain"
	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
)

// AdviceHandler serves AI savings advice.
type AdviceHandler struct {
	store   infra.Store
	advisor *advisor.Advisor
	log     zerolog.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(store infra.Store, adv *advisor.Advisor, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{store: store, advisor: adv, log: log}
}

// Get handles GET /api/advice?start_date=...&end_date=...
// The window defaults to the last 90 days.
func (h *AdviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	query := r.URL.Query()

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -90)
	var err error
	if s := query.Get("start_date"); s != "" {
		if startDate, err = parseDate(s); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if s := query.Get("end_date"); s != "" {
		if endDate, err = parseDate(s); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rows, err := h.store.QueryTransactionsByDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transactions for advice")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to generate advice")
		return
	}
	if len(rows) == 0 {
		middleware.WriteError(w, http.StatusUnprocessableEntity, "No transactions in the requested period")
		return
	}

	summary := advisor.SpendingSummary{
		PeriodStart: startDate,
		PeriodEnd:   endDate,
		ByCategory:  make(map[string]decimal.Decimal),
	}
	for _, row := range rows {
		tx := row.ToDomain()
		if tx.Type == domain.TypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
		summary.ByCategory[tx.CategoryName] = summary.ByCategory[tx.CategoryName].Add(tx.Amount)
	}

	advice, err := h.advisor.SavingsAdvice(ctx, summary)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate advice")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate advice")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period_start":   startDate.Format(dateLayout),
		"period_end":     endDate.Format(dateLayout),
		"total_income":   summary.TotalIncome,
		"total_expenses": summary.TotalExpenses,
		"advice":         advice,
	})
}
