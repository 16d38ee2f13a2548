package export

import "time"

// NextBusinessDay returns the first Monday-to-Friday date after t.
// Distribution batches advance by business day so each consultant's lists
// line up with working days.
func NextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
