package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one bank or cash account owned by a single user.
// InitialBalance is recorded at creation but balances are reconstructed
// from snapshots, not from this field (see internal/balance).
type Account struct {
	ID     string
	UserID string
	Name   string

	InitialBalance    decimal.Decimal
	TrackingStartDate time.Time

	// Display-only attributes, empty when the user never set them.
	Color   string
	IconURL string

	CreatedTS time.Time
}
