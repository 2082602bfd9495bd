package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLessonSlots_FixedDuration(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	dates := []LocalDate{
		NewLocalDate(2024, time.January, 3),
		NewLocalDate(2024, time.January, 10),
	}

	slots, skipped := BuildLessonSlots(dates, TimeOfDay{14, 0}, ny, now)
	require.Empty(t, skipped)
	require.Len(t, slots, 2)

	assert.Equal(t, time.Date(2024, time.January, 3, 19, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, slots[0].Start.Add(time.Hour), slots[0].End)
	assert.Equal(t, dates[0], slots[0].Date)
	assert.Equal(t, time.Date(2024, time.January, 10, 19, 0, 0, 0, time.UTC), slots[1].Start)
}

func TestBuildLessonSlots_SkipsPastInstantsPerInstance(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Now is Jan 8 18:00 UTC (13:00 in New York): Jan 1 and Jan 8 14:00 EST
	// (19:00 UTC) straddle it differently - Jan 1 is past, Jan 8 is one hour
	// ahead, Jan 15 is comfortably future.
	now := time.Date(2024, time.January, 8, 18, 0, 0, 0, time.UTC)
	dates := []LocalDate{
		NewLocalDate(2024, time.January, 1),
		NewLocalDate(2024, time.January, 8),
		NewLocalDate(2024, time.January, 15),
	}

	slots, skipped := BuildLessonSlots(dates, TimeOfDay{14, 0}, ny, now)
	require.Len(t, skipped, 1)
	assert.Equal(t, NewLocalDate(2024, time.January, 1), skipped[0].Date)
	assert.ErrorIs(t, skipped[0].Reason, ErrPastInstant)

	require.Len(t, slots, 2)
	assert.Equal(t, NewLocalDate(2024, time.January, 8), slots[0].Date)
	assert.Equal(t, NewLocalDate(2024, time.January, 15), slots[1].Date)
}

func TestBuildLessonSlots_InstantEqualToNowIsPast(t *testing.T) {
	now := time.Date(2024, time.January, 3, 19, 0, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	slots, skipped := BuildLessonSlots(
		[]LocalDate{NewLocalDate(2024, time.January, 3)}, TimeOfDay{14, 0}, ny, now)
	assert.Empty(t, slots)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0].Reason, ErrPastInstant)
}

func TestBuildLessonSlots_ReportsDSTGapDates(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	dates := []LocalDate{
		NewLocalDate(2024, time.March, 3),
		NewLocalDate(2024, time.March, 10), // 02:30 does not exist on this date
		NewLocalDate(2024, time.March, 17),
	}

	slots, skipped := BuildLessonSlots(dates, TimeOfDay{2, 30}, ny, now)
	require.Len(t, skipped, 1)
	assert.Equal(t, NewLocalDate(2024, time.March, 10), skipped[0].Date)
	assert.ErrorIs(t, skipped[0].Reason, ErrNonexistentLocalTime)
	assert.Len(t, slots, 2)
}
