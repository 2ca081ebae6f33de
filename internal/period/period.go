// Package period resolves reporting period types into concrete date
// ranges. All bounds are date-only values at midnight UTC; ranges are
// inclusive on both ends.
package period

import "time"

// Type identifies a reporting period.
type Type string

const (
	TypeWeek    Type = "week"
	TypeMonth   Type = "month"
	TypeQuarter Type = "quarter"
	TypeYear    Type = "year"
	TypeCustom  Type = "custom"
)

// Range is an inclusive date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered, counting both ends.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Resolve computes the date range for a period type relative to today.
// Custom periods use the explicit bounds when both are given; week runs
// Monday through Sunday; quarter and year handle the December rollover.
// Any other value falls back to first-of-month through today.
func Resolve(t Type, start, end *time.Time, today time.Time) Range {
	today = Truncate(today)

	switch {
	case t == TypeCustom && start != nil && end != nil:
		return Range{Start: Truncate(*start), End: Truncate(*end)}

	case t == TypeWeek:
		// Monday-based week containing today
		weekday := int(today.Weekday()+6) % 7
		monday := today.AddDate(0, 0, -weekday)
		return Range{Start: monday, End: monday.AddDate(0, 0, 6)}

	case t == TypeMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: first, End: first.AddDate(0, 1, -1)}

	case t == TypeQuarter:
		quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		first := time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: first, End: first.AddDate(0, 3, -1)}

	case t == TypeYear:
		return Range{
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		}

	default:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: first, End: today}
	}
}

// MonthWindow returns the calendar month range containing the month that
// lies monthsAgo months before today's month.
func MonthWindow(today time.Time, monthsAgo int) Range {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -monthsAgo, 0)
	return Range{Start: first, End: first.AddDate(0, 1, -1)}
}

// Truncate drops the time-of-day component, normalizing to midnight UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
