package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/balance"
	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
	"github.com/budgetwise/budgetwise/internal/render"
)

// BalancesHandler serves reconstructed balances and charts. Balances are
// never stored; every request recomputes from snapshots and transactions.
type BalancesHandler struct {
	store infra.Store
	log   zerolog.Logger
}

// NewBalancesHandler creates a new balances handler.
func NewBalancesHandler(store infra.Store, log zerolog.Logger) *BalancesHandler {
	return &BalancesHandler{store: store, log: log}
}

// Current handles GET /api/balances/current
func (h *BalancesHandler) Current(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	accounts, transactions, snapshots, err := h.store.UserData(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load balance data")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute balances")
		return
	}

	now := time.Now().UTC()

	type accountBalance struct {
		AccountID string          `json:"account_id"`
		Name      string          `json:"name"`
		Balance   decimal.Decimal `json:"balance"`
	}
	balances := make([]accountBalance, 0, len(accounts))
	for _, account := range accounts {
		balances = append(balances, accountBalance{
			AccountID: account.ID,
			Name:      account.Name,
			Balance:   balance.OnDate(account, now, transactions, snapshots).Round(2),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"total":    balance.TotalCurrent(accounts, transactions, snapshots, now).Round(2),
		"accounts": balances,
	})
}

// OnDate handles GET /api/balances/on-date?account_id=...&date=YYYY-MM-DD
func (h *BalancesHandler) OnDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	query := r.URL.Query()

	accountID := query.Get("account_id")
	if accountID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	date, err := parseDate(query.Get("date"))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	accounts, transactions, snapshots, err := h.store.UserData(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load balance data")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute balance")
		return
	}

	for _, account := range accounts {
		if account.ID == accountID {
			middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"account_id": accountID,
				"date":       date.Format(dateLayout),
				"balance":    balance.OnDate(account, date, transactions, snapshots).Round(2),
			})
			return
		}
	}
	middleware.WriteError(w, http.StatusNotFound, "Account not found")
}

// Chart handles GET /api/balances/chart. With exploded=true the minor
// accounts are charted individually instead of the grouped view.
func (h *BalancesHandler) Chart(w http.ResponseWriter, r *http.Request) {
	cs, g, ok := h.buildSeries(w, r)
	if !ok {
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"points":            cs.Points,
		"series":            cs.Series,
		"grouping_active":   g.Active,
		"minor_account_ids": minorIDs(g),
	})
}

// ChartPNG handles GET /api/balances/chart.png
func (h *BalancesHandler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	cs, _, ok := h.buildSeries(w, r)
	if !ok {
		return
	}

	png, err := render.RenderBalanceChart(cs, "Balance History")
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render chart")
		middleware.WriteError(w, http.StatusUnprocessableEntity, "Not enough data to render a chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *BalancesHandler) buildSeries(w http.ResponseWriter, r *http.Request) (*balance.ChartSeries, balance.Grouping, bool) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	accounts, transactions, snapshots, err := h.store.UserData(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load balance data")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to build chart")
		return nil, balance.Grouping{}, false
	}

	now := time.Now().UTC()
	exploded := r.URL.Query().Get("exploded") == "true"

	g := balance.ComputeGrouping(accounts, transactions, snapshots, now)
	if exploded && !g.Active {
		middleware.WriteError(w, http.StatusBadRequest, "No grouped accounts to explode")
		return nil, balance.Grouping{}, false
	}

	cs := balance.BuildChartSeries(accounts, transactions, snapshots, g, exploded, now)
	return &cs, g, true
}

func minorIDs(g balance.Grouping) []string {
	ids := make([]string, 0, len(g.Minor))
	for _, account := range g.Minor {
		ids = append(ids, account.ID)
	}
	return ids
}
