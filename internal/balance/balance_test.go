package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOnDate_SnapshotOnly(t *testing.T) {
	acct := &domain.Account{ID: "a1", Name: "Checking"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 3, 10), Balance: dec("250.75")},
	}

	tests := []struct {
		name string
		date time.Time
		want decimal.Decimal
	}{
		{"before snapshot", day(2024, 3, 9), decimal.Zero},
		{"on snapshot day", day(2024, 3, 10), dec("250.75")},
		{"after snapshot", day(2024, 6, 1), dec("250.75")},
		{"time of day ignored", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), dec("250.75")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnDate(acct, tt.date, nil, snaps)
			if !got.Equal(tt.want) {
				t.Errorf("OnDate(%s) = %s, want %s", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestOnDate_TransactionReplay(t *testing.T) {
	acct := &domain.Account{ID: "a1", Name: "Checking"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 10), Balance: dec("100")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TypeIncome, Amount: dec("40"), Date: day(2024, 1, 11)},
	}

	// The income lands on D+1: included at D+1, excluded at D.
	if got := OnDate(acct, day(2024, 1, 11), txs, snaps); !got.Equal(dec("140")) {
		t.Errorf("balance at D+1 = %s, want 140", got)
	}
	if got := OnDate(acct, day(2024, 1, 10), txs, snaps); !got.Equal(dec("100")) {
		t.Errorf("balance at D = %s, want 100", got)
	}
}

func TestOnDate_TransactionOnSnapshotDayExcluded(t *testing.T) {
	// A snapshot asserts the balance as of its day, so same-day
	// transactions must not be replayed on top of it.
	acct := &domain.Account{ID: "a1"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 10), Balance: dec("100")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TypeExpense, Amount: dec("30"), Date: day(2024, 1, 10)},
	}

	if got := OnDate(acct, day(2024, 1, 12), txs, snaps); !got.Equal(dec("100")) {
		t.Errorf("balance = %s, want 100 (same-day transaction must be excluded)", got)
	}
}

func TestOnDate_LatestSnapshotWins(t *testing.T) {
	acct := &domain.Account{ID: "a1"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 1), Balance: dec("100")},
		{ID: "s2", AccountID: "a1", Date: day(2024, 2, 1), Balance: dec("500")},
	}
	txs := []*domain.Transaction{
		// Between the snapshots; superseded by the later checkpoint.
		{ID: "t1", AccountID: "a1", Type: domain.TypeIncome, Amount: dec("1000"), Date: day(2024, 1, 15)},
	}

	if got := OnDate(acct, day(2024, 2, 10), txs, snaps); !got.Equal(dec("500")) {
		t.Errorf("balance = %s, want 500 (later snapshot is the base)", got)
	}
}

func TestOnDate_NoSnapshotIgnoresInitialBalance(t *testing.T) {
	// Documented zero-balance default: when no snapshot precedes the date
	// the result is zero, not the account's stated initial balance.
	acct := &domain.Account{ID: "a1", InitialBalance: dec("999")}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TypeIncome, Amount: dec("50"), Date: day(2024, 1, 5)},
	}

	if got := OnDate(acct, day(2024, 1, 10), txs, nil); !got.IsZero() {
		t.Errorf("balance = %s, want 0", got)
	}
}

func TestOnDate_FiltersByAccount(t *testing.T) {
	acct := &domain.Account{ID: "a1"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 1), Balance: dec("100")},
		{ID: "s2", AccountID: "a2", Date: day(2024, 1, 20), Balance: dec("9000")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a2", Type: domain.TypeIncome, Amount: dec("77"), Date: day(2024, 1, 5)},
	}

	if got := OnDate(acct, day(2024, 2, 1), txs, snaps); !got.Equal(dec("100")) {
		t.Errorf("balance = %s, want 100 (other accounts must be ignored)", got)
	}
}

func TestOnDate_Idempotent(t *testing.T) {
	acct := &domain.Account{ID: "a1"}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 10), Balance: dec("500")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TypeExpense, Amount: dec("50"), Date: day(2024, 1, 15)},
	}

	first := OnDate(acct, day(2024, 1, 16), txs, snaps)
	second := OnDate(acct, day(2024, 1, 16), txs, snaps)
	if !first.Equal(second) {
		t.Errorf("OnDate not idempotent: %s vs %s", first, second)
	}
}

func TestOnDate_CheckingScenario(t *testing.T) {
	acct := &domain.Account{
		ID:        "checking",
		Name:      "Checking",
		CreatedTS: day(2024, 1, 1),
	}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "checking", Date: day(2024, 1, 10), Balance: dec("500")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "checking", Type: domain.TypeExpense, Amount: dec("50"), Date: day(2024, 1, 15)},
		{ID: "t2", AccountID: "checking", Type: domain.TypeIncome, Amount: dec("200"), Date: day(2024, 1, 20)},
	}

	tests := []struct {
		date time.Time
		want decimal.Decimal
	}{
		{day(2024, 1, 12), dec("500")},
		{day(2024, 1, 16), dec("450")},
		{day(2024, 1, 25), dec("650")},
	}

	for _, tt := range tests {
		t.Run(tt.date.Format("2006-01-02"), func(t *testing.T) {
			got := OnDate(acct, tt.date, txs, snaps)
			if !got.Equal(tt.want) {
				t.Errorf("OnDate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTotalCurrent(t *testing.T) {
	accounts := []*domain.Account{
		{ID: "a1", Name: "Checking"},
		{ID: "a2", Name: "Savings"},
		{ID: "a3", Name: "Untracked"}, // no snapshot, contributes zero
	}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 1), Balance: dec("100.50")},
		{ID: "s2", AccountID: "a2", Date: day(2024, 1, 1), Balance: dec("200")},
	}
	txs := []*domain.Transaction{
		{ID: "t1", AccountID: "a1", Type: domain.TypeIncome, Amount: dec("10"), Date: day(2024, 1, 5)},
	}

	got := TotalCurrent(accounts, txs, snaps, day(2024, 2, 1))
	if !got.Equal(dec("310.50")) {
		t.Errorf("TotalCurrent = %s, want 310.50", got)
	}
}

func TestTotalCurrent_Empty(t *testing.T) {
	got := TotalCurrent(nil, nil, nil, day(2024, 1, 1))
	if !got.IsZero() {
		t.Errorf("TotalCurrent(empty) = %s, want 0", got)
	}
}
