package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"

	"github.com/budgetwise/budgetwise/internal/domain"
)

type SnapshotRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // REQUIRED
	AccountID  string `bigquery:"account_id"`  // REQUIRED

	Date    civil.Date `bigquery:"snapshot_date"` // DATE, one per (account, day)
	Balance *big.Rat   `bigquery:"balance"`       // NUMERIC, REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

func (r *SnapshotRow) ToDomain() *domain.BalanceSnapshot {
	return &domain.BalanceSnapshot{
		ID:        r.SnapshotID,
		UserID:    r.UserID,
		AccountID: r.AccountID,
		Date:      r.Date.In(time.UTC),
		Balance:   ratToDecimal(r.Balance),
	}
}

func SnapshotRowFromDomain(s *domain.BalanceSnapshot) *SnapshotRow {
	return &SnapshotRow{
		SnapshotID: s.ID,
		UserID:     s.UserID,
		AccountID:  s.AccountID,
		Date:       civil.DateOf(s.Date),
		Balance:    s.Balance.Rat(),
	}
}
