package services

import (
	"fmt"
	"time"
)

type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
}

// MaxRangeDays bounds the span of a requested range. Each day becomes a
// bucket and every WindowDays days an upstream fetch.
const MaxRangeDays = 3660

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func ParseDateRange(from, to string) (DateRange, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return DateRange{}, &InvalidDateError{Value: from, Reason: "expected YYYY-MM-DD"}
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return DateRange{}, &InvalidDateError{Value: to, Reason: "expected YYYY-MM-DD"}
	}
	rng := DateRange{Start: start, End: end}
	if err := rng.validate(); err != nil {
		return DateRange{}, err
	}
	if span := rng.Span(); span > MaxRangeDays {
		return DateRange{}, &InvalidDateError{
			Value:  from + ".." + to,
			Reason: fmt.Sprintf("range spans %d days, at most %d allowed", span, MaxRangeDays),
		}
	}
	return rng, nil
}

func (r DateRange) validate() error {
	if r.Start.After(r.End) {
		return &InvalidDateError{
			Value:  r.Start.Format(time.DateOnly),
			Reason: "start date is after end date " + r.End.Format(time.DateOnly),
		}
	}
	return nil
}

// Span is the number of days between start and end. A single-day range has
// a span of zero.
func (r DateRange) Span() int {
	return daysBetween(r.Start, r.End)
}

func (r DateRange) Days() []string {
	days := make([]string, 0, r.Span()+1)
	for d := truncateDay(r.Start); !d.After(truncateDay(r.End)); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(time.DateOnly))
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days with day numbers rather than
// time.Duration, which overflows past roughly 292 years.
func daysBetween(start, end time.Time) int {
	return dayNumber(end) - dayNumber(start)
}

// dayNumber is the Julian day number of t's calendar date.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	a := (14 - int(m)) / 12
	yy := y + 4800 - a
	mm := int(m) + 12*a - 3
	return d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}
