package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"

	"github.com/budgetwise/budgetwise/internal/domain"
)

type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	UserID        string `bigquery:"user_id"`        // REQUIRED
	AccountID     string `bigquery:"account_id"`     // REQUIRED

	Type         string     `bigquery:"type"`          // "income" | "expense"
	Amount       *big.Rat   `bigquery:"amount"`        // NUMERIC, always positive
	Description  string     `bigquery:"description"`   // REQUIRED
	CategoryName string     `bigquery:"category_name"` // denormalized, not a foreign key
	Date         civil.Date `bigquery:"transaction_date"`

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

func (r *TransactionRow) ToDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:           r.TransactionID,
		UserID:       r.UserID,
		AccountID:    r.AccountID,
		Type:         domain.TransactionType(r.Type),
		Amount:       ratToDecimal(r.Amount),
		Description:  r.Description,
		CategoryName: r.CategoryName,
		Date:         r.Date.In(time.UTC),
		CreatedTS:    r.CreatedTS,
	}
}

func TransactionRowFromDomain(t *domain.Transaction) *TransactionRow {
	return &TransactionRow{
		TransactionID: t.ID,
		UserID:        t.UserID,
		AccountID:     t.AccountID,
		Type:          string(t.Type),
		Amount:        t.Amount.Rat(),
		Description:   t.Description,
		CategoryName:  t.CategoryName,
		Date:          civil.DateOf(t.Date),
		CreatedTS:     t.CreatedTS,
	}
}
