package helpers

import "time"

// DateLayout is the wire format for calendar dates. No time-of-day component
// is meaningful anywhere in the booking flow.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date into a UTC midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a time as its UTC calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DateOnly strips the time-of-day component, keeping the UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DatesBetween expands an inclusive date range into every calendar day it
// contains, both endpoints included. Returns nil when end is before start.
// The loop requires the date to strictly advance each step so it can never
// spin forever.
func DatesBetween(start, end time.Time) []time.Time {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	for cur := start; !cur.After(end); {
		dates = append(dates, cur)
		next := cur.AddDate(0, 0, 1)
		if !next.After(cur) {
			break
		}
		cur = next
	}
	return dates
}
