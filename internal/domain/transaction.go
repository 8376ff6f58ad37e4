package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction adds to or subtracts from
// an account balance. Amounts are always stored positive; the sign is
// implied by the type.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is one income or expense entry on an account.
// CategoryName is denormalized free text, not a foreign key; renaming a
// category rewrites this field on every affected transaction.
type Transaction struct {
	ID        string
	UserID    string
	AccountID string

	Type         TransactionType
	Amount       decimal.Decimal // always positive
	Description  string
	CategoryName string

	Date      time.Time
	CreatedTS time.Time
}

// Delta returns the signed contribution of the transaction to a balance:
// +Amount for income, -Amount for expense.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
