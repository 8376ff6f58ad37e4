package balance

import (
	"testing"
	"time"
)

func TestPolicyFor_Granularity(t *testing.T) {
	newest := day(2024, 6, 15)

	tests := []struct {
		name   string
		oldest time.Time
		want   Granularity
	}{
		{"same day", newest, Daily},
		{"10 days", newest.AddDate(0, 0, -10), Daily},
		{"exactly 60 days", newest.AddDate(0, 0, -60), Daily},
		{"61 days", newest.AddDate(0, 0, -61), Monthly},
		{"one year", newest.AddDate(-1, 0, 0), Monthly},
		{"two years", newest.AddDate(-2, 0, 0), Quarterly},
		{"three years", newest.AddDate(0, 0, -1095), Quarterly},
		{"four years", newest.AddDate(-4, 0, 0), Yearly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolicyFor(tt.oldest, newest)
			if got.Granularity != tt.want {
				t.Errorf("PolicyFor granularity = %s, want %s", got.Granularity, tt.want)
			}
		})
	}
}

func TestPolicyFor_DailyAnchorsThirtyBuckets(t *testing.T) {
	newest := day(2024, 6, 15)

	// A short span is widened so at least 30 daily buckets come out.
	p := PolicyFor(newest.AddDate(0, 0, -10), newest)
	if want := newest.AddDate(0, 0, -29); !p.Start.Equal(want) {
		t.Errorf("short-span daily start = %s, want %s", p.Start, want)
	}

	// A span past 30 days keeps its natural start.
	p = PolicyFor(newest.AddDate(0, 0, -45), newest)
	if want := newest.AddDate(0, 0, -45); !p.Start.Equal(want) {
		t.Errorf("45-day daily start = %s, want %s", p.Start, want)
	}
}

func TestPolicyFor_Anchors(t *testing.T) {
	newest := day(2024, 6, 15)

	tests := []struct {
		name      string
		oldest    time.Time
		wantStart time.Time
	}{
		{"monthly anchors at month start", day(2023, 8, 20), day(2023, 8, 1)},
		{"quarterly anchors at quarter start", day(2022, 8, 20), day(2022, 7, 1)},
		{"yearly anchors at year start", day(2019, 8, 20), day(2019, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PolicyFor(tt.oldest, newest)
			if !p.Start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", p.Start, tt.wantStart)
			}
		})
	}
}

func TestPolicy_Next(t *testing.T) {
	from := day(2024, 1, 31)

	tests := []struct {
		granularity Granularity
		want        time.Time
	}{
		{Daily, day(2024, 2, 1)},
		{Monthly, day(2024, 3, 2)}, // Jan 31 + 1 month normalizes past Feb
		{Quarterly, day(2024, 5, 1)},
		{Yearly, day(2025, 1, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.granularity.String(), func(t *testing.T) {
			p := Policy{Granularity: tt.granularity}
			if got := p.Next(from); !got.Equal(tt.want) {
				t.Errorf("Next(%s) = %s, want %s", from, got, tt.want)
			}
		})
	}
}

func TestPolicy_Label(t *testing.T) {
	tests := []struct {
		granularity Granularity
		date        time.Time
		want        string
	}{
		{Daily, day(2024, 3, 5), "5 Mar"},
		{Monthly, day(2024, 3, 1), "Mar 24"},
		{Quarterly, day(2024, 1, 1), "Q1 '24"},
		{Quarterly, day(2024, 10, 1), "Q4 '24"},
		{Yearly, day(2024, 1, 1), "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := Policy{Granularity: tt.granularity}
			if got := p.Label(tt.date); got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPolicyFor_ReversedRange(t *testing.T) {
	// A newest date older than oldest collapses to a zero span instead of
	// producing a policy that never terminates.
	newest := day(2024, 6, 15)
	p := PolicyFor(newest.AddDate(0, 0, 10), newest)
	if p.Granularity != Daily {
		t.Errorf("granularity = %s, want daily", p.Granularity)
	}
	if p.Start.After(newest) {
		t.Errorf("start %s is after newest %s", p.Start, newest)
	}
}
