// Package handlers implements the BudgetWise HTTP endpoints. Every handler
// reads the user scope set by the auth middleware and passes it down to the
// store; no endpoint can see another user's data.
package handlers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
	infra "github.com/budgetwise/budgetwise/internal/infra/bigquery"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// Response DTOs. Rows carry *big.Rat amounts which marshal badly, so
// everything crosses the wire through these.

type accountResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	InitialBalance    decimal.Decimal `json:"initial_balance"`
	TrackingStartDate string          `json:"tracking_start_date"`
	Color             string          `json:"color,omitempty"`
	IconURL           string          `json:"icon_url,omitempty"`
	CreatedTS         time.Time       `json:"created_ts"`
}

func accountToResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:                a.ID,
		Name:              a.Name,
		InitialBalance:    a.InitialBalance,
		TrackingStartDate: a.TrackingStartDate.Format(dateLayout),
		Color:             a.Color,
		IconURL:           a.IconURL,
		CreatedTS:         a.CreatedTS,
	}
}

func accountRowsToResponse(rows []*infra.AccountRow) []accountResponse {
	out := make([]accountResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, accountToResponse(row.ToDomain()))
	}
	return out
}

type transactionResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	CategoryName string          `json:"category_name"`
	Date         string          `json:"date"`
	CreatedTS    time.Time       `json:"created_ts"`
}

func transactionToResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		Description:  t.Description,
		CategoryName: t.CategoryName,
		Date:         t.Date.Format(dateLayout),
		CreatedTS:    t.CreatedTS,
	}
}

func transactionRowsToResponse(rows []*infra.TransactionRow) []transactionResponse {
	out := make([]transactionResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionToResponse(row.ToDomain()))
	}
	return out
}

type snapshotResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Date      string          `json:"date"`
	Balance   decimal.Decimal `json:"balance"`
}

func snapshotRowsToResponse(rows []*infra.SnapshotRow) []snapshotResponse {
	out := make([]snapshotResponse, 0, len(rows))
	for _, row := range rows {
		s := row.ToDomain()
		out = append(out, snapshotResponse{
			ID:        s.ID,
			AccountID: s.AccountID,
			Date:      s.Date.Format(dateLayout),
			Balance:   s.Balance,
		})
	}
	return out
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedTS time.Time `json:"created_ts"`
}

func categoryRowsToResponse(rows []*infra.CategoryRow) []categoryResponse {
	out := make([]categoryResponse, 0, len(rows))
	for _, row := range rows {
		c := row.ToDomain()
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, CreatedTS: c.CreatedTS})
	}
	return out
}
