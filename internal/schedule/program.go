package schedule

import (
	"coachhub/coaching-app/internal/domain"
)

// DayCell is the resolved program content for one active date.
type DayCell struct {
	WeekNumber    int  // 1-based
	DayNumber     int  // 1-based, 1..7 within the week
	IsRestDay     bool // flagged rest day, or a day with zero work items
	WorkItemCount int
}

// ResolveProgramDay maps a target local date onto the assignment's week/day
// grid. ok is false when the assignment is inactive on that date: the date
// precedes the start, falls past durationWeeks*7 days, or the grid has no
// matching cell. Date arithmetic is pure local-date math and never crosses
// through an absolute-instant conversion.
//
// A missing or sparse grid cell resolves to inactive rather than an error;
// program content is authored data and composition must not crash on it.
func ResolveProgramDay(a domain.ProgramAssignment, target LocalDate) (cell DayCell, ok bool) {
	start := DateOf(a.StartDate)
	daysSinceStart := start.DaysUntil(target)
	if daysSinceStart < 0 || daysSinceStart >= a.DurationWeeks*7 {
		return DayCell{}, false
	}

	weekNumber := daysSinceStart/7 + 1
	dayNumber := daysSinceStart%7 + 1

	for _, w := range a.Weeks {
		if w.WeekNumber != weekNumber {
			continue
		}
		for _, d := range w.Days {
			if d.DayNumber != dayNumber {
				continue
			}
			return DayCell{
				WeekNumber:    weekNumber,
				DayNumber:     dayNumber,
				IsRestDay:     d.IsRestDay || len(d.WorkItems) == 0,
				WorkItemCount: len(d.WorkItems),
			}, true
		}
	}
	return DayCell{}, false
}
