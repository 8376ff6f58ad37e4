// Package balance reconstructs account balances from user-asserted
// snapshots plus the transaction ledger, and derives the time-bucketed
// series the dashboard charts are built from.
//
// Every function in this package is pure: it reads the in-memory
// collections the caller already fetched (scoped to one user), performs
// no I/O, and returns a freshly constructed result. The caller re-invokes
// on every data change; nothing is cached here.
package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// OnDate reconstructs the balance of one account as of the given date.
//
// The most recent snapshot on or before the date is the trusted base;
// transactions strictly after the snapshot's day and up through the target
// day are replayed on top of it. When no snapshot precedes the date the
// balance is zero. That zero is deliberate: the account's initial-balance
// field is not consulted on this path.
func OnDate(account *domain.Account, date time.Time, transactions []*domain.Transaction, snapshots []*domain.BalanceSnapshot) decimal.Decimal {
	target := startOfDay(date)

	var base *domain.BalanceSnapshot
	var baseDay time.Time
	for _, s := range snapshots {
		if s.AccountID != account.ID {
			continue
		}
		day := startOfDay(s.Date)
		if day.After(target) {
			continue
		}
		if base == nil || !day.Before(baseDay) {
			base = s
			baseDay = day
		}
	}
	if base == nil {
		return decimal.Zero
	}

	total := base.Balance
	for _, t := range transactions {
		if t.AccountID != account.ID {
			continue
		}
		day := startOfDay(t.Date)
		if day.After(baseDay) && !day.After(target) {
			total = total.Add(t.Delta())
		}
	}
	return total
}

// TotalCurrent sums OnDate across all accounts at the given moment.
// Accounts with no qualifying snapshot contribute zero.
func TotalCurrent(accounts []*domain.Account, transactions []*domain.Transaction, snapshots []*domain.BalanceSnapshot, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(OnDate(a, now, transactions, snapshots))
	}
	return total
}
