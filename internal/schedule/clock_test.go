package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsolute_RoundTrip(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		date LocalDate
		at   TimeOfDay
	}{
		{NewLocalDate(2024, time.January, 3), TimeOfDay{14, 0}},
		{NewLocalDate(2024, time.June, 30), TimeOfDay{23, 30}},
		{NewLocalDate(2024, time.December, 31), TimeOfDay{0, 0}},
		{NewLocalDate(2024, time.July, 4), TimeOfDay{9, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.date.String()+" "+tt.at.String(), func(t *testing.T) {
			instant, err := ToAbsolute(tt.date, tt.at, ny)
			require.NoError(t, err)
			assert.Equal(t, time.UTC, instant.Location())
			assert.Equal(t, tt.date, ToLocalDate(instant, ny))
		})
	}
}

func TestToAbsolute_KnownOffset(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// EST, UTC-5: 14:00 local is 19:00 UTC.
	instant, err := ToAbsolute(NewLocalDate(2024, time.January, 3), TimeOfDay{14, 0}, ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 3, 19, 0, 0, 0, time.UTC), instant)

	// EDT, UTC-4: 14:00 local is 18:00 UTC.
	instant, err = ToAbsolute(NewLocalDate(2024, time.July, 3), TimeOfDay{14, 0}, ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.July, 3, 18, 0, 0, 0, time.UTC), instant)
}

func TestToAbsolute_NonexistentLocalTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 02:30 falls inside the spring-forward gap in New York.
	_, err = ToAbsolute(NewLocalDate(2024, time.March, 10), TimeOfDay{2, 30}, ny)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonexistentLocalTime)

	// 03:00 on the same day is the first valid wall time after the gap.
	instant, err := ToAbsolute(NewLocalDate(2024, time.March, 10), TimeOfDay{3, 0}, ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC), instant)
}

func TestClock_Today(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-01-04 02:00 UTC is still Jan 3 in New York but already Jan 4 in Tokyo.
	clock := NewClock(time.Date(2024, time.January, 4, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, NewLocalDate(2024, time.January, 3), clock.Today(ny))
	assert.Equal(t, NewLocalDate(2024, time.January, 4), clock.Today(tokyo))
}

func TestLocalDate_Arithmetic(t *testing.T) {
	d := NewLocalDate(2024, time.January, 31)
	assert.Equal(t, NewLocalDate(2024, time.February, 1), d.AddDays(1))
	assert.Equal(t, NewLocalDate(2023, time.December, 31), d.AddDays(-31))
	assert.Equal(t, 29, d.DaysUntil(NewLocalDate(2024, time.February, 29)))
	assert.Equal(t, -1, d.DaysUntil(NewLocalDate(2024, time.January, 30)))
	assert.True(t, d.Before(NewLocalDate(2024, time.February, 1)))
	assert.True(t, d.After(NewLocalDate(2024, time.January, 1)))
}

func TestParseLocalDate(t *testing.T) {
	d, err := ParseLocalDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewLocalDate(2024, time.February, 29), d)

	_, err = ParseLocalDate("not-a-date")
	assert.Error(t, err)
}

func TestParseTimeOfDay(t *testing.T) {
	at, err := ParseTimeOfDay("14:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{14, 5}, at)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}
