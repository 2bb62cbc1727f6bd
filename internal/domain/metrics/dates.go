package metrics

import "time"

// truncateToDay drops the time-of-day component. All date comparisons in this
// package happen at calendar-day granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetweenInclusive counts calendar days from a to b, both included.
// Returns at least 1 (same day), also when b is before a.
func daysBetweenInclusive(a, b time.Time) int {
	days := int(truncateToDay(b).Sub(truncateToDay(a)).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// monthBounds returns the inclusive start/end instants of t's calendar month:
// day 1 00:00:00.000 through the last day 23:59:59.999…
func monthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// endOfYear returns Dec 31 of the given year (day granularity).
func endOfYear(year int, loc *time.Location) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
}

// monthKey formats a YYYY-MM bucket key.
func monthKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// previousMonth steps one month back, handling the January → December of the
// previous year rollover.
func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}
