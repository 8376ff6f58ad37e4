package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// Series keys for the synthetic chart lines. Per-account series are keyed
// by account name.
const (
	SeriesTotal  = "Total Balance"
	SeriesOthers = "Others"
)

// minAccountsForGrouping is the account count below which the major/minor
// split never activates.
const minAccountsForGrouping = 3

// minorShare is the fraction of total balance magnitude below which an
// account counts as minor.
var minorShare = decimal.NewFromFloat(0.02)

// Default series colors; an account's own color wins when set.
var (
	totalColor  = "#0f766e"
	othersColor = "#9ca3af"
	palette     = []string{
		"#2563eb", "#dc2626", "#d97706", "#7c3aed",
		"#0891b2", "#db2777", "#65a30d", "#ea580c",
	}
)

// SeriesConfig maps one chart series key to its display label and color.
type SeriesConfig struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Grouping is the major/minor account split used to keep multi-line charts
// readable. It is a display classification only, recomputed from scratch
// on every data change.
type Grouping struct {
	Major  []*domain.Account
	Minor  []*domain.Account
	Active bool
	Series []SeriesConfig
}

// ComputeGrouping classifies accounts as major or minor by their share of
// the total current-balance magnitude. Grouping stays inactive when there
// are fewer than three accounts, when every balance is zero, or when at
// most one account falls under the threshold (a single minor account has
// nothing to collapse into).
func ComputeGrouping(accounts []*domain.Account, transactions []*domain.Transaction, snapshots []*domain.BalanceSnapshot, now time.Time) Grouping {
	balances := make(map[string]decimal.Decimal, len(accounts))
	magnitude := decimal.Zero
	for _, a := range accounts {
		b := OnDate(a, now, transactions, snapshots)
		balances[a.ID] = b
		magnitude = magnitude.Add(b.Abs())
	}

	var major, minor []*domain.Account
	if len(accounts) >= minAccountsForGrouping && magnitude.IsPositive() {
		threshold := magnitude.Mul(minorShare)
		for _, a := range accounts {
			if balances[a.ID].Abs().LessThan(threshold) {
				minor = append(minor, a)
			} else {
				major = append(major, a)
			}
		}
	}

	g := Grouping{Active: len(minor) > 1}
	if g.Active {
		g.Major = major
		g.Minor = minor
	} else {
		g.Major = accounts
	}
	g.Series = accountSeries(g.Major)
	if g.Active {
		g.Series = append(g.Series, SeriesConfig{Key: SeriesOthers, Label: SeriesOthers, Color: othersColor})
	}
	g.Series = append(g.Series, SeriesConfig{Key: SeriesTotal, Label: SeriesTotal, Color: totalColor})
	return g
}

// accountSeries builds one series config entry per individually charted
// account.
func accountSeries(accounts []*domain.Account) []SeriesConfig {
	series := make([]SeriesConfig, 0, len(accounts)+2)
	for i, a := range accounts {
		color := a.Color
		if color == "" {
			color = palette[i%len(palette)]
		}
		series = append(series, SeriesConfig{Key: a.Name, Label: a.Name, Color: color})
	}
	return series
}
