// Package schedule is the calendar composition and recurring-scheduling
// engine. Every function in it is a pure transformation over its explicit
// inputs: no I/O, no shared state, no ambient wall clock. "Now" and timezone
// are always passed in by the caller, so concurrent calls need no
// coordination and every result is reproducible in tests.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	// ErrNonexistentLocalTime means the requested wall-clock time does not
	// exist in the given zone (it falls inside a DST spring-forward gap).
	// The adapter fails closed rather than silently shifting the instant.
	ErrNonexistentLocalTime = errors.New("local time does not exist in this timezone")

	// ErrInvalidLocalDate and ErrInvalidTimeOfDay wrap parse failures so
	// callers can distinguish bad input from internal errors.
	ErrInvalidLocalDate = errors.New("invalid local date")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

// LocalDate is a civil calendar date with no timezone attached. All of the
// engine's date arithmetic happens on LocalDate values; conversion to and
// from absolute instants goes through ToAbsolute/ToLocalDate only.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate builds a LocalDate, normalizing out-of-range components the
// way time.Date does (e.g. Feb 30 becomes Mar 1 or 2).
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) LocalDate {
	return LocalDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseLocalDate parses "2006-01-02".
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("%w: %q", ErrInvalidLocalDate, s)
	}
	return DateOf(t), nil
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date n days after d (n may be negative).
func (d LocalDate) AddDays(n int) LocalDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return DateOf(t)
}

// DaysUntil returns the number of calendar days from d to o.
// Negative if o is before d.
func (d LocalDate) DaysUntil(o LocalDate) int {
	a := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	b := time.Date(o.Year, o.Month, o.Day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

func (d LocalDate) Before(o LocalDate) bool { return d.DaysUntil(o) > 0 }
func (d LocalDate) After(o LocalDate) bool  { return d.DaysUntil(o) < 0 }
func (d LocalDate) Equal(o LocalDate) bool  { return d == o }

// IsZero reports whether d is the zero value.
func (d LocalDate) IsZero() bool { return d == LocalDate{} }

// AtMidnightUTC returns d as a time.Time at 00:00 UTC. This is the storage
// representation the repositories use for civil dates.
func (d LocalDate) AtMidnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ToAbsolute converts a local calendar date plus wall-clock time in the given
// zone into an absolute UTC instant. It returns ErrNonexistentLocalTime when
// the wall-clock time falls inside a DST gap, instead of letting the runtime
// shift it forward. Times repeated by a fall-back transition resolve to the
// first valid instant.
func ToAbsolute(d LocalDate, tod TimeOfDay, loc *time.Location) (time.Time, error) {
	t := time.Date(d.Year, d.Month, d.Day, tod.Hour, tod.Minute, 0, 0, loc)
	// time.Date normalizes nonexistent wall times; if the round trip does not
	// land on the requested components, the input was inside a gap.
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day ||
		t.Hour() != tod.Hour || t.Minute() != tod.Minute {
		return time.Time{}, fmt.Errorf("%w: %s %s in %s", ErrNonexistentLocalTime, d, tod, loc)
	}
	return t.UTC(), nil
}

// ToLocalDate returns the calendar date of the given instant as seen from loc.
func ToLocalDate(instant time.Time, loc *time.Location) LocalDate {
	return DateOf(instant.In(loc))
}

// Clock carries the caller-supplied "now". Deeper engine functions never read
// a global wall clock; callers construct a Clock once per request and pass it
// down, which keeps everything deterministic under test.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock anchored at the given instant.
func NewClock(now time.Time) Clock {
	return Clock{now: now}
}

// Now returns the anchored instant.
func (c Clock) Now() time.Time {
	return c.now
}

// Today returns the calendar date of the anchored instant in loc.
func (c Clock) Today(loc *time.Location) LocalDate {
	return ToLocalDate(c.now, loc)
}
