package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot is a user-asserted, trusted balance for one account on
// one specific day. It is the checkpoint that balance reconstruction
// replays transactions forward from. Date is normalized to start of day;
// the store keeps at most one snapshot per (account, day) pair.
type BalanceSnapshot struct {
	ID        string
	UserID    string
	AccountID string

	Date    time.Time
	Balance decimal.Decimal
}
