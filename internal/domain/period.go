package domain

import (
	"fmt"
	"time"
)

const (
	MinYear = 1900
	MaxYear = 2100
)

// Period is a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d", ErrInvalid, month)
	}
	if year < MinYear || year > MaxYear {
		return Period{}, fmt.Errorf("%w: year %d", ErrInvalid, year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Bounds returns [first day, first day of next month) in loc.
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// Today returns local midnight of now in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}
