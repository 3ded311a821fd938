package dates

import "time"

// DaysInclusive returns the calendar-day span between start and end counting
// both endpoints, so start == end yields 1. Time-of-day and zone are ignored.
// When end precedes start the count is zero or negative; callers that feed
// reversed ranges get the arithmetic result back unchanged.
func DaysInclusive(start, end time.Time) int {
	s := midnightUTC(start)
	e := midnightUTC(end)
	return int(e.Sub(s).Hours()/24) + 1
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
