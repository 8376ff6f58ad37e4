package balance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// fixtureAccounts builds one account per balance with a snapshot asserting
// that balance well before now.
func fixtureAccounts(balances map[string]string) ([]*domain.Account, []*domain.BalanceSnapshot) {
	var accounts []*domain.Account
	var snaps []*domain.BalanceSnapshot
	names := []string{"Checking", "Savings", "Cash", "Brokerage", "Travel"}
	for _, name := range names {
		bal, ok := balances[name]
		if !ok {
			continue
		}
		id := "acct-" + name
		accounts = append(accounts, &domain.Account{ID: id, Name: name, CreatedTS: day(2024, 1, 1)})
		snaps = append(snaps, &domain.BalanceSnapshot{
			ID:        "snap-" + name,
			AccountID: id,
			Date:      day(2024, 1, 1),
			Balance:   decimal.RequireFromString(bal),
		})
	}
	return accounts, snaps
}

func TestComputeGrouping_MajorMinorSplit(t *testing.T) {
	// Balances [1000, 10, 5, 3]: magnitude 1018, 2% threshold 20.36.
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking":  "1000",
		"Savings":   "10",
		"Cash":      "5",
		"Brokerage": "3",
	})
	now := day(2024, 6, 1)

	g := ComputeGrouping(accounts, nil, snaps, now)

	if !g.Active {
		t.Fatal("grouping should be active with three minor accounts")
	}
	if len(g.Major) != 1 || g.Major[0].Name != "Checking" {
		t.Errorf("major = %v, want [Checking]", accountNames(g.Major))
	}
	if got := accountNames(g.Minor); len(got) != 3 {
		t.Errorf("minor = %v, want 3 accounts", got)
	}
}

func TestComputeGrouping_TwoAccountsNeverGroup(t *testing.T) {
	// Below the minimum account count, even extreme skew stays ungrouped.
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking": "100000",
		"Cash":     "1",
	})

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))
	if g.Active {
		t.Error("grouping must stay inactive with two accounts")
	}
	if len(g.Major) != 2 {
		t.Errorf("major = %v, want both accounts", accountNames(g.Major))
	}
}

func TestComputeGrouping_SingleMinorLeftUngrouped(t *testing.T) {
	// One minor account has nothing to collapse into.
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking": "1000",
		"Savings":  "900",
		"Cash":     "5",
	})

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))
	if g.Active {
		t.Error("grouping must stay inactive with a single minor account")
	}
	if len(g.Major) != 3 {
		t.Errorf("major = %v, want all three accounts", accountNames(g.Major))
	}
}

func TestComputeGrouping_ZeroMagnitude(t *testing.T) {
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking": "0",
		"Savings":  "0",
		"Cash":     "0",
	})

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))
	if g.Active {
		t.Error("grouping must stay inactive at zero total magnitude")
	}
}

func TestComputeGrouping_NegativeBalancesCountByMagnitude(t *testing.T) {
	// A large negative balance (credit card debt) is major by |balance|.
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking":  "1000",
		"Savings":   "-800",
		"Cash":      "4",
		"Brokerage": "2",
	})

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))
	if !g.Active {
		t.Fatal("grouping should be active")
	}
	majors := accountNames(g.Major)
	if len(majors) != 2 {
		t.Errorf("major = %v, want Checking and Savings", majors)
	}
}

func TestComputeGrouping_SeriesConfig(t *testing.T) {
	accounts, snaps := fixtureAccounts(map[string]string{
		"Checking":  "1000",
		"Savings":   "10",
		"Cash":      "5",
		"Brokerage": "3",
	})

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))

	keys := make(map[string]bool)
	for _, s := range g.Series {
		keys[s.Key] = true
		if s.Color == "" {
			t.Errorf("series %q has no color", s.Key)
		}
	}
	if !keys[SeriesOthers] {
		t.Error("active grouping must configure an Others series")
	}
	if !keys[SeriesTotal] {
		t.Error("series config must always include Total Balance")
	}
	if !keys["Checking"] {
		t.Error("major account missing from series config")
	}
	if keys["Cash"] {
		t.Error("minor account must not have its own series when grouped")
	}
}

func TestComputeGrouping_AccountColorWins(t *testing.T) {
	accounts := []*domain.Account{
		{ID: "a1", Name: "Checking", Color: "#123456", CreatedTS: day(2024, 1, 1)},
	}
	snaps := []*domain.BalanceSnapshot{
		{ID: "s1", AccountID: "a1", Date: day(2024, 1, 1), Balance: dec("100")},
	}

	g := ComputeGrouping(accounts, nil, snaps, day(2024, 6, 1))
	for _, s := range g.Series {
		if s.Key == "Checking" && s.Color != "#123456" {
			t.Errorf("series color = %s, want the account's own color", s.Color)
		}
	}
}

func accountNames(accounts []*domain.Account) []string {
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	return names
}
