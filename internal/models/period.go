package models

import (
	"fmt"
	"time"
)

// Period is a closed time interval. A zero Start or End leaves that side
// unbounded.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	if !p.Start.IsZero() && t.Before(p.Start) {
		return false
	}
	if !p.End.IsZero() && t.After(p.End) {
		return false
	}
	return true
}

// PeriodFromQuarter returns the calendar quarter (1 to 4) of year.
func PeriodFromQuarter(year, quarter int, loc *time.Location) (Period, error) {
	if quarter < 1 || quarter > 4 {
		return Period{}, fmt.Errorf("invalid quarter %d", quarter)
	}
	start := time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 3, 0).Add(-time.Nanosecond)}, nil
}

// PeriodFilter names a calendar period relative to now.
type PeriodFilter string

const (
	FilterCurrentMonth   PeriodFilter = "CURRENT_MONTH"
	FilterCurrentQuarter PeriodFilter = "CURRENT_QUARTER"
	FilterCurrentYear    PeriodFilter = "CURRENT_YEAR"
	FilterLastMonth      PeriodFilter = "LAST_MONTH"
	FilterLastQuarter    PeriodFilter = "LAST_QUARTER"
	FilterLastYear       PeriodFilter = "LAST_YEAR"
)

// Period resolves the filter against now.
func (f PeriodFilter) Period(now time.Time) (Period, error) {
	loc := now.Location()
	year, month, _ := now.Date()
	quarter := (int(month)-1)/3 + 1

	switch f {
	case FilterCurrentMonth:
		return monthPeriod(year, month, loc), nil
	case FilterLastMonth:
		return monthPeriod(year, month-1, loc), nil
	case FilterCurrentQuarter:
		return PeriodFromQuarter(year, quarter, loc)
	case FilterLastQuarter:
		if quarter == 1 {
			return PeriodFromQuarter(year-1, 4, loc)
		}
		return PeriodFromQuarter(year, quarter-1, loc)
	case FilterCurrentYear:
		return yearPeriod(year, loc), nil
	case FilterLastYear:
		return yearPeriod(year-1, loc), nil
	default:
		return Period{}, fmt.Errorf("unknown period filter %q", string(f))
	}
}

func monthPeriod(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

func yearPeriod(year int, loc *time.Location) Period {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(1, 0, 0).Add(-time.Nanosecond)}
}
