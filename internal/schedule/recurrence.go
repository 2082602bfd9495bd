package schedule

import (
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	ErrInvalidRecurrence = errors.New("invalid recurrence")
)

// Cadence controls the spacing between generated lesson dates.
type Cadence string

const (
	CadenceWeekly    Cadence = "weekly"
	CadenceBiweekly  Cadence = "biweekly"
	CadenceTriweekly Cadence = "triweekly"
	CadenceMonthly   Cadence = "monthly"
)

// weekMultiplier returns the number of weeks one cadence step covers, or 0
// for the monthly cadence (which advances by calendar months, not weeks).
func (c Cadence) weekMultiplier() int {
	switch c {
	case CadenceWeekly:
		return 1
	case CadenceBiweekly:
		return 2
	case CadenceTriweekly:
		return 3
	default:
		return 0
	}
}

// RecurrenceRequest describes a recurring lesson series to expand. Input
// only, never persisted.
type RecurrenceRequest struct {
	Start    LocalDate
	End      LocalDate
	Cadence  Cadence
	Interval int
	Timezone string
}

// ExpandRecurrence produces the ordered, deduplicated sequence of local
// calendar dates the cadence visits, inclusive of Start, each on or before
// End. The sequence is finite and fully materialized; recurrence horizons in
// this domain are weeks to months, never open-ended.
//
// Weekly cadences step by weekMultiplier*Interval weeks. The monthly cadence
// advances by Interval calendar months from the anchor start date, clamping
// the day-of-month at month-end overflow (Jan 31 + 1 month = Feb 28/29, and
// the following step lands back on Mar 31, because each step clamps from the
// anchor rather than from the previous occurrence).
func ExpandRecurrence(req RecurrenceRequest) ([]LocalDate, error) {
	if req.Interval < 1 {
		return nil, fmt.Errorf("%w: interval must be >= 1, got %d", ErrInvalidRecurrence, req.Interval)
	}
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("%w: end date %s precedes start date %s", ErrInvalidRecurrence, req.End, req.Start)
	}

	var dates []LocalDate
	switch req.Cadence {
	case CadenceWeekly, CadenceBiweekly, CadenceTriweekly:
		step := req.Cadence.weekMultiplier() * req.Interval * 7
		for d := req.Start; !req.End.Before(d); d = d.AddDays(step) {
			dates = append(dates, d)
		}
	case CadenceMonthly:
		for i := 0; ; i++ {
			d := addMonthsClamped(req.Start, i*req.Interval)
			if req.End.Before(d) {
				break
			}
			dates = append(dates, d)
		}
	default:
		return nil, fmt.Errorf("%w: unknown cadence %q", ErrInvalidRecurrence, req.Cadence)
	}

	return dedupeSorted(dates), nil
}

// addMonthsClamped advances the anchor date by n calendar months, keeping the
// anchor's day-of-month and clamping to the target month's last day when it
// overflows.
func addMonthsClamped(anchor LocalDate, n int) LocalDate {
	// Normalize year/month via time.Date with day 1 so the month shift never
	// spills into a neighbor month before we clamp.
	first := time.Date(anchor.Year, anchor.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := anchor.Day
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return LocalDate{Year: first.Year(), Month: first.Month(), Day: day}
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dedupeSorted removes adjacent duplicates from an already-ordered sequence.
func dedupeSorted(dates []LocalDate) []LocalDate {
	out := dates[:0]
	for i, d := range dates {
		if i == 0 || d != dates[i-1] {
			out = append(out, d)
		}
	}
	return out
}
