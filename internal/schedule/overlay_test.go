package schedule

import (
	"testing"
	"time"

	"coachhub/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func replacement(assignmentID primitive.ObjectID, date LocalDate) domain.ReplacementRecord {
	return domain.ReplacementRecord{
		ID:           primitive.NewObjectID(),
		AssignmentID: assignmentID,
		ReplacedDate: date.AtMidnightUTC(),
	}
}

func TestFilterReplaced_DropsMatchingPairs(t *testing.T) {
	aID := primitive.NewObjectID()
	bID := primitive.NewObjectID()
	date := NewLocalDate(2024, time.January, 3)

	items := []ProgramDayItem{
		{AssignmentID: aID, Date: date, Cell: DayCell{WeekNumber: 1, DayNumber: 3}},
		{AssignmentID: bID, Date: date, Cell: DayCell{WeekNumber: 2, DayNumber: 1}},
		{AssignmentID: aID, Date: date.AddDays(1), Cell: DayCell{WeekNumber: 1, DayNumber: 4}},
	}

	got := FilterReplaced(items, []domain.ReplacementRecord{replacement(aID, date)})
	require.Len(t, got, 2)
	assert.Equal(t, bID, got[0].AssignmentID)
	assert.Equal(t, date.AddDays(1), got[1].Date)
}

func TestFilterReplaced_DuplicateRecordsAreIdempotent(t *testing.T) {
	aID := primitive.NewObjectID()
	date := NewLocalDate(2024, time.January, 3)
	items := []ProgramDayItem{
		{AssignmentID: aID, Date: date},
		{AssignmentID: aID, Date: date.AddDays(7)},
	}

	single := FilterReplaced(items, []domain.ReplacementRecord{replacement(aID, date)})
	triple := FilterReplaced(items, []domain.ReplacementRecord{
		replacement(aID, date),
		replacement(aID, date),
		replacement(aID, date),
	})
	assert.Equal(t, single, triple)
	require.Len(t, single, 1)
	assert.Equal(t, date.AddDays(7), single[0].Date)
}

func TestFilterReplaced_OrderIndependent(t *testing.T) {
	aID := primitive.NewObjectID()
	bID := primitive.NewObjectID()
	d1 := NewLocalDate(2024, time.February, 1)
	d2 := NewLocalDate(2024, time.February, 2)
	items := []ProgramDayItem{
		{AssignmentID: aID, Date: d1},
		{AssignmentID: bID, Date: d2},
	}

	forward := FilterReplaced(items, []domain.ReplacementRecord{replacement(aID, d1), replacement(bID, d2)})
	reversed := FilterReplaced(items, []domain.ReplacementRecord{replacement(bID, d2), replacement(aID, d1)})
	assert.Equal(t, forward, reversed)
	assert.Empty(t, forward)
}

func TestFilterReplaced_DifferentAssignmentSameDateSurvives(t *testing.T) {
	// Replacements key on the assignment, not the program: another client's
	// assignment sharing the date must keep its day.
	aID := primitive.NewObjectID()
	bID := primitive.NewObjectID()
	date := NewLocalDate(2024, time.January, 3)
	items := []ProgramDayItem{
		{AssignmentID: aID, Date: date},
		{AssignmentID: bID, Date: date},
	}

	got := FilterReplaced(items, []domain.ReplacementRecord{replacement(aID, date)})
	require.Len(t, got, 1)
	assert.Equal(t, bID, got[0].AssignmentID)
}

func TestFilterReplaced_NoReplacementsPassthrough(t *testing.T) {
	items := []ProgramDayItem{{AssignmentID: primitive.NewObjectID(), Date: NewLocalDate(2024, time.March, 1)}}
	assert.Equal(t, items, FilterReplaced(items, nil))
}
