package balance

import (
	"fmt"
	"time"
)

// Granularity is the sampling interval of a chart bucket.
type Granularity int

const (
	Daily Granularity = iota
	Monthly
	Quarterly
	Yearly
)

func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	default:
		return "yearly"
	}
}

// Policy describes how a date range is sliced into chart buckets: where the
// first bucket starts, how to advance to the next one, and how a bucket
// date is labelled.
type Policy struct {
	Granularity Granularity
	Start       time.Time
}

// minDailyBuckets keeps short-span charts from collapsing into a handful of
// points: the daily policy always anchors at least this many buckets back.
const minDailyBuckets = 30

// PolicyFor picks the bucket policy for the span between the oldest relevant
// date and the newest one (typically today). Rules are evaluated in order,
// first match wins, so the bucket count stays legible no matter how long
// the user's history is.
func PolicyFor(oldest, newest time.Time) Policy {
	oldest = startOfDay(oldest)
	newest = startOfDay(newest)
	if oldest.After(newest) {
		oldest = newest
	}

	spanDays := int(newest.Sub(oldest).Hours() / 24)

	switch {
	case spanDays <= 60:
		back := spanDays
		if back < minDailyBuckets-1 {
			back = minDailyBuckets - 1
		}
		return Policy{Granularity: Daily, Start: newest.AddDate(0, 0, -back)}

	case spanDays <= 547: // 1.5 years
		start := time.Date(oldest.Year(), oldest.Month(), 1, 0, 0, 0, 0, oldest.Location())
		return Policy{Granularity: Monthly, Start: start}

	case spanDays <= 1095: // 3 years
		qm := time.Month((int(oldest.Month())-1)/3*3 + 1)
		start := time.Date(oldest.Year(), qm, 1, 0, 0, 0, 0, oldest.Location())
		return Policy{Granularity: Quarterly, Start: start}

	default:
		start := time.Date(oldest.Year(), time.January, 1, 0, 0, 0, 0, oldest.Location())
		return Policy{Granularity: Yearly, Start: start}
	}
}

// Next advances a bucket date by one bucket.
func (p Policy) Next(t time.Time) time.Time {
	switch p.Granularity {
	case Daily:
		return t.AddDate(0, 0, 1)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Quarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// Label formats a bucket date for chart axes.
func (p Policy) Label(t time.Time) string {
	switch p.Granularity {
	case Daily:
		return t.Format("2 Jan")
	case Monthly:
		return t.Format("Jan 06")
	case Quarterly:
		q := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d '%s", q, t.Format("06"))
	default:
		return t.Format("2006")
	}
}
