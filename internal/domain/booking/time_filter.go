package booking

import "time"

// TimeFilter buckets a booking's interval relative to a reference time.
type TimeFilter string

const (
	TimeFilterCurrent TimeFilter = "CURRENT"
	TimeFilterPast    TimeFilter = "PAST"
	TimeFilterFuture  TimeFilter = "FUTURE"
)

// Classify buckets the [start, end] interval against the reference time.
// The reference time is always supplied by the caller so a single value can
// be reused across every comparison of one query.
func Classify(start, end, now time.Time) TimeFilter {
	switch {
	case end.Before(now):
		return TimeFilterPast
	case start.After(now):
		return TimeFilterFuture
	default:
		// start <= now <= end
		return TimeFilterCurrent
	}
}

// Matches reports whether the interval falls into this bucket at the reference time.
func (f TimeFilter) Matches(start, end, now time.Time) bool {
	return Classify(start, end, now) == f
}
