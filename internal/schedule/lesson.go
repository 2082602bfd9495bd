package schedule

import (
	"errors"
	"fmt"
	"time"
)

// --- Error Definitions ---
var (
	// ErrPastInstant means an expanded lesson instant falls at or before the
	// caller-supplied "now".
	ErrPastInstant = errors.New("lesson instant is not in the future")
)

// DefaultLessonDuration is the fixed length of a lesson.
const DefaultLessonDuration = time.Hour

// LessonSlot is one buildable lesson occurrence: the local date it was
// expanded from plus its absolute UTC start/end instants.
type LessonSlot struct {
	Date  LocalDate
	Start time.Time // UTC
	End   time.Time // UTC
}

// SkippedSlot reports a date that could not be turned into a valid slot and
// why. Rejections are per instance; the caller decides whether to create a
// partial batch or abort the whole request.
type SkippedSlot struct {
	Date   LocalDate
	Reason error
}

// BuildLessonSlots combines each expanded local date with the wall-clock
// start time in loc, producing UTC start/end instants with the fixed default
// duration. Dates whose resulting instant is not strictly after now are
// reported in skipped with ErrPastInstant; dates falling in a DST gap are
// reported with ErrNonexistentLocalTime. Pure construction, no persistence.
func BuildLessonSlots(dates []LocalDate, at TimeOfDay, loc *time.Location, now time.Time) (slots []LessonSlot, skipped []SkippedSlot) {
	for _, d := range dates {
		start, err := ToAbsolute(d, at, loc)
		if err != nil {
			skipped = append(skipped, SkippedSlot{Date: d, Reason: err})
			continue
		}
		if !start.After(now) {
			skipped = append(skipped, SkippedSlot{
				Date:   d,
				Reason: fmt.Errorf("%w: %s %s is at or before %s", ErrPastInstant, d, at, now.UTC().Format(time.RFC3339)),
			})
			continue
		}
		slots = append(slots, LessonSlot{Date: d, Start: start, End: start.Add(DefaultLessonDuration)})
	}
	return slots, skipped
}
