package streak

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a civil calendar date with no time-of-day or zone attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t as observed in loc. A nil loc uses
// t's own location.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, nil), nil
}

// AddDays moves the date by n calendar days. Arithmetic runs on a UTC noon
// anchor so DST transitions never skip or repeat a date.
func (d Day) AddDays(n int) Day {
	return DayOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC), nil)
}

// Prev returns the previous calendar date.
func (d Day) Prev() Day { return d.AddDays(-1) }

// Next returns the following calendar date.
func (d Day) Next() Day { return d.AddDays(1) }

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Start returns the first instant of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// End returns the first instant of the following day in loc, so [Start, End)
// covers d even on 23- and 25-hour days.
func (d Day) End(loc *time.Location) time.Time {
	return d.Next().Start(loc)
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
