package util

import (
	"math"
	"time"
)

// DaysRemaining returns the number of whole days between now and end, rounded
// up, so a rental expiring later today still shows 1 day left. Returns nil
// when no end date is set. Negative values mean the end date has passed and
// are returned as-is; callers decide how to display them.
func DaysRemaining(end *time.Time, now time.Time) *int {
	if end == nil {
		return nil
	}
	days := int(math.Ceil(end.Sub(now).Hours() / 24))
	return &days
}

// AddMonths adds calendar months to t, clamping the day to the last valid day
// of the target month (Jan 31 + 1 month = Feb 28/29). This avoids the
// normalization in time.AddDate, which would roll Jan 31 + 1 month into March.
func AddMonths(t time.Time, months int) time.Time {
	year := t.Year()
	month := int(t.Month()) - 1 + months // 0-indexed
	year += month / 12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	targetMonth := time.Month(month + 1)

	// Last day of the target month: day 0 of the following month
	lastDay := time.Date(year, targetMonth+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// EndOfDay returns the last instant of the calendar day containing t.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
