package schedule

import (
	"sort"
	"time"

	"coachhub/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonItem is one lesson as it appears on a calendar date: UTC instants for
// the caller to persist or re-derive from, local instants for display.
type LessonItem struct {
	ID         primitive.ObjectID  `json:"id"`
	CoachID    primitive.ObjectID  `json:"coachId"`
	Start      time.Time           `json:"start"`      // UTC
	End        time.Time           `json:"end"`        // UTC
	StartLocal time.Time           `json:"startLocal"` // in the caller's zone
	EndLocal   time.Time           `json:"endLocal"`
	Status     domain.LessonStatus `json:"status"`
}

// RoutineItem marks a routine assignment on its start date.
type RoutineItem struct {
	ID        primitive.ObjectID `json:"id"`
	RoutineID primitive.ObjectID `json:"routineId"`
	Name      string             `json:"name"`
}

// VideoItem marks a video assignment on its due date.
type VideoItem struct {
	ID      primitive.ObjectID `json:"id"`
	VideoID primitive.ObjectID `json:"videoId"`
}

// DayView is the merged per-date calendar view: four independent lists, each
// ordered stably by entity id so identical inputs always produce identical
// output.
type DayView struct {
	Date         LocalDate        `json:"date"`
	Lessons      []LessonItem     `json:"lessons"`
	ProgramItems []ProgramDayItem `json:"programItems"`
	Routines     []RoutineItem    `json:"routines"`
	Videos       []VideoItem      `json:"videos"`
}

// ComposeInput bundles the already-authorized, already-fetched records the
// composer reads. The engine trusts these completely; scoping them to the
// right client and coach is the caller's job.
type ComposeInput struct {
	Assignments  []domain.ProgramAssignment
	Replacements []domain.ReplacementRecord
	Lessons      []domain.LessonEvent
	Routines     []domain.RoutineAssignment
	Videos       []domain.VideoAssignment
}

// ComposeDay derives the complete set of visible items for one client and one
// local calendar date. Program days go through the replacement overlay first;
// there is no other cross-list suppression - a lesson and a surviving program
// day on the same date coexist on purpose (a client can have a coached lesson
// and an independent at-home program day together).
func ComposeDay(clientID primitive.ObjectID, date LocalDate, loc *time.Location, in ComposeInput) DayView {
	view := DayView{
		Date:         date,
		Lessons:      []LessonItem{},
		ProgramItems: []ProgramDayItem{},
		Routines:     []RoutineItem{},
		Videos:       []VideoItem{},
	}

	for _, a := range in.Assignments {
		if a.ClientID != clientID {
			continue
		}
		cell, ok := ResolveProgramDay(a, date)
		if !ok {
			continue
		}
		view.ProgramItems = append(view.ProgramItems, ProgramDayItem{
			AssignmentID: a.ID,
			ProgramID:    a.ProgramID,
			Date:         date,
			Cell:         cell,
		})
	}
	view.ProgramItems = FilterReplaced(view.ProgramItems, in.Replacements)

	for _, l := range in.Lessons {
		if l.ClientID != clientID || ToLocalDate(l.StartInstant, loc) != date {
			continue
		}
		view.Lessons = append(view.Lessons, LessonItem{
			ID:         l.ID,
			CoachID:    l.CoachID,
			Start:      l.StartInstant.UTC(),
			End:        l.EndInstant.UTC(),
			StartLocal: l.StartInstant.In(loc),
			EndLocal:   l.EndInstant.In(loc),
			Status:     l.Status,
		})
	}

	for _, r := range in.Routines {
		if r.ClientID != clientID || DateOf(r.StartDate) != date {
			continue
		}
		view.Routines = append(view.Routines, RoutineItem{ID: r.ID, RoutineID: r.RoutineID, Name: r.Name})
	}

	for _, v := range in.Videos {
		if v.ClientID != clientID || v.DueDate == nil || DateOf(*v.DueDate) != date {
			continue
		}
		view.Videos = append(view.Videos, VideoItem{ID: v.ID, VideoID: v.VideoID})
	}

	sort.Slice(view.Lessons, func(i, j int) bool {
		return view.Lessons[i].ID.Hex() < view.Lessons[j].ID.Hex()
	})
	sort.Slice(view.ProgramItems, func(i, j int) bool {
		return view.ProgramItems[i].AssignmentID.Hex() < view.ProgramItems[j].AssignmentID.Hex()
	})
	sort.Slice(view.Routines, func(i, j int) bool {
		return view.Routines[i].ID.Hex() < view.Routines[j].ID.Hex()
	})
	sort.Slice(view.Videos, func(i, j int) bool {
		return view.Videos[i].ID.Hex() < view.Videos[j].ID.Hex()
	})

	return view
}

// ComposeRange produces one DayView per date in [start, end] inclusive, in
// date order.
func ComposeRange(clientID primitive.ObjectID, start, end LocalDate, loc *time.Location, in ComposeInput) []DayView {
	if end.Before(start) {
		return nil
	}
	views := make([]DayView, 0, start.DaysUntil(end)+1)
	for d := start; !end.Before(d); d = d.AddDays(1) {
		views = append(views, ComposeDay(clientID, d, loc, in))
	}
	return views
}
