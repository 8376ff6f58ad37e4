package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

type AccountRow struct {
	AccountID string `bigquery:"account_id"` // REQUIRED
	UserID    string `bigquery:"user_id"`    // REQUIRED

	Name string `bigquery:"name"` // REQUIRED

	InitialBalance    *big.Rat   `bigquery:"initial_balance"`     // NUMERIC, REQUIRED
	TrackingStartDate civil.Date `bigquery:"tracking_start_date"` // DATE, REQUIRED

	Color   bigquery.NullString `bigquery:"color"`    // NULLABLE
	IconURL bigquery.NullString `bigquery:"icon_url"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// ToDomain maps a stored row to the domain struct the balance engine and
// handlers work with.
func (r *AccountRow) ToDomain() *domain.Account {
	return &domain.Account{
		ID:                r.AccountID,
		UserID:            r.UserID,
		Name:              r.Name,
		InitialBalance:    ratToDecimal(r.InitialBalance),
		TrackingStartDate: r.TrackingStartDate.In(time.UTC),
		Color:             r.Color.StringVal,
		IconURL:           r.IconURL.StringVal,
		CreatedTS:         r.CreatedTS,
	}
}

// AccountRowFromDomain maps a domain account into its table row.
func AccountRowFromDomain(a *domain.Account) *AccountRow {
	return &AccountRow{
		AccountID:         a.ID,
		UserID:            a.UserID,
		Name:              a.Name,
		InitialBalance:    a.InitialBalance.Rat(),
		TrackingStartDate: civil.DateOf(a.TrackingStartDate),
		Color:             nullString(a.Color),
		IconURL:           nullString(a.IconURL),
		CreatedTS:         a.CreatedTS,
	}
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

// ratToDecimal converts a BigQuery NUMERIC value to a decimal amount.
// NUMERIC columns carry two decimal places in this schema.
func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 2)
}
