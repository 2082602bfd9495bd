package schedule

import (
	"testing"
	"time"

	"coachhub/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestComposeDay_ReplacedProgramDayWithLesson covers the full override
// scenario: a 6-week program starting 2024-01-01 with week 1 day 3 authored
// as a rest day, a replacement for 2024-01-03, and a confirmed lesson that
// day at 14:00 New York time. The view must show the lesson and suppress the
// program day, with nothing else present.
func TestComposeDay_ReplacedProgramDayWithLesson(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	target := NewLocalDate(2024, time.January, 3)

	a := testAssignment(clientID, start, 6, map[[2]int]bool{{1, 3}: true})

	lessonStart, err := ToAbsolute(target, TimeOfDay{14, 0}, ny)
	require.NoError(t, err)
	lesson := domain.LessonEvent{
		ID:           primitive.NewObjectID(),
		ClientID:     clientID,
		CoachID:      a.CoachID,
		StartInstant: lessonStart,
		EndInstant:   lessonStart.Add(time.Hour),
		Status:       domain.LessonConfirmed,
	}

	view := ComposeDay(clientID, target, ny, ComposeInput{
		Assignments:  []domain.ProgramAssignment{a},
		Replacements: []domain.ReplacementRecord{replacement(a.ID, target)},
		Lessons:      []domain.LessonEvent{lesson},
	})

	require.Len(t, view.Lessons, 1)
	assert.Equal(t, domain.LessonConfirmed, view.Lessons[0].Status)
	assert.Equal(t, 14, view.Lessons[0].StartLocal.Hour())
	assert.Equal(t, time.Date(2024, time.January, 3, 19, 0, 0, 0, time.UTC), view.Lessons[0].Start)

	assert.Empty(t, view.ProgramItems, "replaced program day must be suppressed")
	assert.Empty(t, view.Routines)
	assert.Empty(t, view.Videos)
}

func TestComposeDay_LessonAndProgramDayCoexist(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	target := start.AddDays(1)
	a := testAssignment(clientID, start, 6, nil)

	lessonStart, err := ToAbsolute(target, TimeOfDay{9, 0}, ny)
	require.NoError(t, err)

	view := ComposeDay(clientID, target, ny, ComposeInput{
		Assignments: []domain.ProgramAssignment{a},
		Lessons: []domain.LessonEvent{{
			ID:           primitive.NewObjectID(),
			ClientID:     clientID,
			StartInstant: lessonStart,
			EndInstant:   lessonStart.Add(time.Hour),
			Status:       domain.LessonPending,
		}},
	})

	// No replacement record: both the coached lesson and the at-home program
	// day show up for the same date.
	assert.Len(t, view.Lessons, 1)
	require.Len(t, view.ProgramItems, 1)
	assert.Equal(t, 2, view.ProgramItems[0].Cell.DayNumber)
	assert.Equal(t, 2, view.ProgramItems[0].Cell.WorkItemCount)
}

func TestComposeDay_RoutineAndVideoMarkers(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	target := NewLocalDate(2024, time.February, 10)
	due := target.AtMidnightUTC()

	routine := domain.RoutineAssignment{
		ID:        primitive.NewObjectID(),
		ClientID:  clientID,
		RoutineID: primitive.NewObjectID(),
		Name:      "mobility",
		StartDate: target.AtMidnightUTC(),
	}
	video := domain.VideoAssignment{
		ID:       primitive.NewObjectID(),
		ClientID: clientID,
		VideoID:  primitive.NewObjectID(),
		DueDate:  &due,
	}
	noDue := domain.VideoAssignment{
		ID:       primitive.NewObjectID(),
		ClientID: clientID,
		VideoID:  primitive.NewObjectID(),
	}

	view := ComposeDay(clientID, target, ny, ComposeInput{
		Routines: []domain.RoutineAssignment{routine},
		Videos:   []domain.VideoAssignment{video, noDue},
	})
	require.Len(t, view.Routines, 1)
	assert.Equal(t, "mobility", view.Routines[0].Name)
	require.Len(t, view.Videos, 1)
	assert.Equal(t, video.VideoID, view.Videos[0].VideoID)

	// Markers are single-day: the day after shows neither.
	next := ComposeDay(clientID, target.AddDays(1), ny, ComposeInput{
		Routines: []domain.RoutineAssignment{routine},
		Videos:   []domain.VideoAssignment{video},
	})
	assert.Empty(t, next.Routines)
	assert.Empty(t, next.Videos)
}

func TestComposeDay_IgnoresOtherClientsRecords(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	a := testAssignment(otherID, start, 6, nil)

	view := ComposeDay(clientID, start, ny, ComposeInput{
		Assignments: []domain.ProgramAssignment{a},
		Routines: []domain.RoutineAssignment{{
			ID: primitive.NewObjectID(), ClientID: otherID, StartDate: start.AtMidnightUTC(),
		}},
	})
	assert.Empty(t, view.ProgramItems)
	assert.Empty(t, view.Routines)
}

func TestComposeDay_DeterministicOrdering(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	a1 := testAssignment(clientID, start, 6, nil)
	a2 := testAssignment(clientID, start, 6, nil)

	in := ComposeInput{Assignments: []domain.ProgramAssignment{a1, a2}}
	reversed := ComposeInput{Assignments: []domain.ProgramAssignment{a2, a1}}

	first := ComposeDay(clientID, start, ny, in)
	second := ComposeDay(clientID, start, ny, reversed)
	assert.Equal(t, first, second, "input order must not affect the view")

	require.Len(t, first.ProgramItems, 2)
	assert.Less(t, first.ProgramItems[0].AssignmentID.Hex(), first.ProgramItems[1].AssignmentID.Hex())
}

func TestComposeRange_OneViewPerDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	a := testAssignment(clientID, start, 1, nil)

	views := ComposeRange(clientID, start, start.AddDays(9), ny, ComposeInput{
		Assignments: []domain.ProgramAssignment{a},
	})
	require.Len(t, views, 10)
	assert.Equal(t, start, views[0].Date)
	assert.Equal(t, start.AddDays(9), views[9].Date)

	// Program covers only the first 7 days of the range.
	for i, v := range views {
		if i < 7 {
			assert.Len(t, v.ProgramItems, 1, "day %d", i)
		} else {
			assert.Empty(t, v.ProgramItems, "day %d", i)
		}
	}

	assert.Nil(t, ComposeRange(clientID, start, start.AddDays(-1), ny, ComposeInput{}))
}
