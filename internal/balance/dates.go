package balance

import "time"

// startOfDay truncates a timestamp to day granularity in its own location.
// All reconstruction comparisons happen on start-of-day values.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
