package schedule

import (
	"testing"
	"time"

	"coachhub/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func workoutViews(assignmentID primitive.ObjectID, start LocalDate, n int) []DayView {
	views := make([]DayView, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDays(i)
		views = append(views, DayView{
			Date: d,
			ProgramItems: []ProgramDayItem{{
				AssignmentID: assignmentID,
				Date:         d,
				Cell:         DayCell{WorkItemCount: 2},
			}},
		})
	}
	return views
}

func TestAggregateCompliance_CountsWorkoutDaysOnly(t *testing.T) {
	aID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	views := workoutViews(aID, start, 5)
	// Turn two days into rest days; they must not enter the denominator.
	views[1].ProgramItems[0].Cell = DayCell{IsRestDay: true}
	views[3].ProgramItems[0].Cell = DayCell{IsRestDay: true}

	done := CompletionSet{
		{AssignmentID: aID, Date: start}:            {},
		{AssignmentID: aID, Date: start.AddDays(2)}: {},
	}

	got := AggregateCompliance(4, views, done)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Completed)
	assert.InDelta(t, 66.7, got.Rate, 0.001)
	assert.Equal(t, 4, got.WindowWeeks)
}

func TestAggregateCompliance_ZeroTotalYieldsZeroRate(t *testing.T) {
	got := AggregateCompliance(4, nil, CompletionSet{})
	assert.Zero(t, got.Total)
	assert.Zero(t, got.Completed)
	assert.Zero(t, got.Rate)

	// Rest-only windows have no schedulable days either.
	aID := primitive.NewObjectID()
	views := workoutViews(aID, NewLocalDate(2024, time.January, 1), 3)
	for i := range views {
		views[i].ProgramItems[0].Cell = DayCell{IsRestDay: true}
	}
	got = AggregateCompliance(6, views, CompletionSet{})
	assert.Zero(t, got.Total)
	assert.Zero(t, got.Rate)
}

func TestAggregateCompliance_ClampsCompletedAndRate(t *testing.T) {
	// Malformed upstream data: more completions than schedulable days. The
	// aggregator reports completed = total and rate = 100, never more.
	aID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	views := workoutViews(aID, start, 10)

	done := make(CompletionSet)
	for i := 0; i < 12; i++ {
		done[CompletionKey{AssignmentID: aID, Date: start.AddDays(i)}] = struct{}{}
	}

	got := AggregateCompliance(4, views, done)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 10, got.Completed)
	assert.Equal(t, 100.0, got.Rate)
}

func TestAggregateCompliance_RateRoundsToOneDecimal(t *testing.T) {
	aID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	views := workoutViews(aID, start, 3)
	done := CompletionSet{{AssignmentID: aID, Date: start}: {}}

	got := AggregateCompliance(4, views, done)
	assert.InDelta(t, 33.3, got.Rate, 0.0001) // 1/3 = 33.333... -> 33.3
}

func TestComplianceRange_Windows(t *testing.T) {
	today := NewLocalDate(2024, time.March, 15)
	earliest := NewLocalDate(2024, time.January, 1)

	start, end := ComplianceRange(4, today, earliest)
	assert.Equal(t, today.AddDays(-28), start)
	assert.Equal(t, today, end)

	start, end = ComplianceRange(8, today, earliest)
	assert.Equal(t, today.AddDays(-56), start)
	assert.Equal(t, today, end)

	// All time anchors at the earliest assignment start.
	start, end = ComplianceRange(0, today, earliest)
	assert.Equal(t, earliest, start)
	assert.Equal(t, today, end)

	// No assignments at all: degenerate single-day window.
	start, end = ComplianceRange(0, today, LocalDate{})
	assert.Equal(t, today, start)
	assert.Equal(t, today, end)

	// Assignment starting in the future must not invert the window.
	start, end = ComplianceRange(0, today, today.AddDays(10))
	assert.Equal(t, today, start)
	assert.Equal(t, today, end)
}

func TestAggregateCompliance_EndToEndWithComposer(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clientID := primitive.NewObjectID()
	start := NewLocalDate(2024, time.January, 1)
	// Week 1: day 3 and day 7 rest, five workout days.
	a := testAssignment(clientID, start, 1, map[[2]int]bool{{1, 3}: true, {1, 7}: true})

	in := ComposeInput{
		Assignments: []domain.ProgramAssignment{a},
		// Day 2 replaced by a lesson: drops out of the denominator entirely.
		Replacements: []domain.ReplacementRecord{replacement(a.ID, start.AddDays(1))},
	}
	views := ComposeRange(clientID, start, start.AddDays(6), ny, in)

	done := CompletionSet{
		{AssignmentID: a.ID, Date: start}:            {},
		{AssignmentID: a.ID, Date: start.AddDays(3)}: {},
	}

	got := AggregateCompliance(0, views, done)
	assert.Equal(t, 4, got.Total, "5 workout days minus 1 replaced")
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 50.0, got.Rate)
}
