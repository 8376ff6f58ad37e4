package balance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// Point is one chart bucket: the bucket date, its axis label, and the
// rounded value of every series at that date.
type Point struct {
	Date   time.Time                  `json:"date"`
	Label  string                     `json:"label"`
	Values map[string]decimal.Decimal `json:"values"`
}

// ChartSeries is an ordered, chronological sequence of bucket points plus
// the configuration needed to render them.
type ChartSeries struct {
	Points []Point        `json:"points"`
	Series []SeriesConfig `json:"series"`
}

// BuildChartSeries samples reconstructed balances at each bucket boundary
// between the oldest relevant date and now, inclusive of a final bucket at
// now. In the normal view it emits one series per major account, an Others
// series when grouping is active, and always a Total Balance series. When
// exploded it emits the minor accounts individually instead.
//
// Values are rounded to two decimal places at emission only; sums are
// accumulated unrounded so rounding error never compounds across buckets.
func BuildChartSeries(accounts []*domain.Account, transactions []*domain.Transaction, snapshots []*domain.BalanceSnapshot, g Grouping, exploded bool, now time.Time) ChartSeries {
	today := startOfDay(now)

	relevant := accounts
	if exploded {
		relevant = g.Minor
	}

	policy := PolicyFor(oldestRelevantDate(relevant, snapshots, today), today)

	var points []Point
	last := time.Time{}
	for d := policy.Start; !d.After(today); d = policy.Next(d) {
		points = append(points, samplePoint(d, policy, g, exploded, transactions, snapshots))
		last = d
	}
	if last.Before(today) {
		points = append(points, samplePoint(today, policy, g, exploded, transactions, snapshots))
	}

	series := g.Series
	if exploded {
		// Exploded view charts the minors on their own; no synthetic lines.
		series = accountSeries(g.Minor)
	}

	return ChartSeries{Points: points, Series: series}
}

// oldestRelevantDate finds the chart's left edge: the earliest snapshot
// among the charted accounts, else the earliest account creation date,
// else today.
func oldestRelevantDate(accounts []*domain.Account, snapshots []*domain.BalanceSnapshot, today time.Time) time.Time {
	ids := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		ids[a.ID] = true
	}

	oldest := time.Time{}
	for _, s := range snapshots {
		if !ids[s.AccountID] {
			continue
		}
		day := startOfDay(s.Date)
		if oldest.IsZero() || day.Before(oldest) {
			oldest = day
		}
	}
	if !oldest.IsZero() {
		return oldest
	}

	for _, a := range accounts {
		day := startOfDay(a.CreatedTS)
		if oldest.IsZero() || day.Before(oldest) {
			oldest = day
		}
	}
	if !oldest.IsZero() {
		return oldest
	}
	return today
}

func samplePoint(d time.Time, policy Policy, g Grouping, exploded bool, transactions []*domain.Transaction, snapshots []*domain.BalanceSnapshot) Point {
	values := make(map[string]decimal.Decimal)

	if exploded {
		for _, a := range g.Minor {
			values[a.Name] = OnDate(a, d, transactions, snapshots).Round(2)
		}
		return Point{Date: d, Label: policy.Label(d), Values: values}
	}

	total := decimal.Zero
	for _, a := range g.Major {
		b := OnDate(a, d, transactions, snapshots)
		values[a.Name] = b.Round(2)
		total = total.Add(b)
	}
	if g.Active {
		others := decimal.Zero
		for _, a := range g.Minor {
			others = others.Add(OnDate(a, d, transactions, snapshots))
		}
		values[SeriesOthers] = others.Round(2)
		total = total.Add(others)
	}
	values[SeriesTotal] = total.Round(2)

	return Point{Date: d, Label: policy.Label(d), Values: values}
}
