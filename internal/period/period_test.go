package period

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	// 2024-03-15 is a Friday.
	today := date(2024, time.March, 15)

	tests := []struct {
		name  string
		typ   Type
		today time.Time
		start time.Time
		end   time.Time
	}{
		{"week_monday_through_sunday", TypeWeek, today, date(2024, time.March, 11), date(2024, time.March, 17)},
		{"month", TypeMonth, today, date(2024, time.March, 1), date(2024, time.March, 31)},
		{"quarter_q1", TypeQuarter, today, date(2024, time.January, 1), date(2024, time.March, 31)},
		{"quarter_q4_year_end", TypeQuarter, date(2024, time.December, 20), date(2024, time.October, 1), date(2024, time.December, 31)},
		{"year", TypeYear, today, date(2024, time.January, 1), date(2024, time.December, 31)},
		{"week_crossing_month", TypeWeek, date(2024, time.April, 1), date(2024, time.April, 1), date(2024, time.April, 7)},
		{"month_february_leap", TypeMonth, date(2024, time.February, 10), date(2024, time.February, 1), date(2024, time.February, 29)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Resolve(tc.typ, nil, nil, tc.today)
			if !r.Start.Equal(tc.start) {
				t.Errorf("expected start %v, got %v", tc.start, r.Start)
			}
			if !r.End.Equal(tc.end) {
				t.Errorf("expected end %v, got %v", tc.end, r.End)
			}
		})
	}
}

func TestResolveCustom(t *testing.T) {
	today := date(2024, time.March, 15)
	start := date(2024, time.January, 10)
	end := date(2024, time.February, 20)

	t.Run("explicit_bounds", func(t *testing.T) {
		r := Resolve(TypeCustom, &start, &end, today)
		if !r.Start.Equal(start) || !r.End.Equal(end) {
			t.Errorf("expected [%v, %v], got [%v, %v]", start, end, r.Start, r.End)
		}
	})

	t.Run("missing_bounds_fall_back", func(t *testing.T) {
		// Custom without both dates degrades to first-of-month through today.
		r := Resolve(TypeCustom, &start, nil, today)
		if !r.Start.Equal(date(2024, time.March, 1)) {
			t.Errorf("expected start 2024-03-01, got %v", r.Start)
		}
		if !r.End.Equal(today) {
			t.Errorf("expected end %v, got %v", today, r.End)
		}
	})
}

func TestResolveUnknownType(t *testing.T) {
	today := date(2024, time.March, 15)
	r := Resolve(Type("bogus"), nil, nil, today)
	if !r.Start.Equal(date(2024, time.March, 1)) {
		t.Errorf("expected start 2024-03-01, got %v", r.Start)
	}
	if !r.End.Equal(today) {
		t.Errorf("expected end %v, got %v", today, r.End)
	}
}

func TestRangeDays(t *testing.T) {
	r := Range{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}
	if got := r.Days(); got != 31 {
		t.Errorf("expected 31 days, got %d", got)
	}

	single := Range{Start: date(2024, time.March, 1), End: date(2024, time.March, 1)}
	if got := single.Days(); got != 1 {
		t.Errorf("expected 1 day, got %d", got)
	}
}

func TestMonthWindow(t *testing.T) {
	today := date(2024, time.March, 15)

	t.Run("current_month", func(t *testing.T) {
		r := MonthWindow(today, 0)
		if !r.Start.Equal(date(2024, time.March, 1)) || !r.End.Equal(date(2024, time.March, 31)) {
			t.Errorf("unexpected range [%v, %v]", r.Start, r.End)
		}
	})

	t.Run("crosses_year_boundary", func(t *testing.T) {
		r := MonthWindow(today, 4)
		if !r.Start.Equal(date(2023, time.November, 1)) || !r.End.Equal(date(2023, time.November, 30)) {
			t.Errorf("unexpected range [%v, %v]", r.Start, r.End)
		}
	})
}

func TestTruncate(t *testing.T) {
	in := time.Date(2024, time.March, 15, 13, 45, 59, 123, time.UTC)
	if got := Truncate(in); !got.Equal(date(2024, time.March, 15)) {
		t.Errorf("expected 2024-03-15T00:00:00Z, got %v", got)
	}
}
