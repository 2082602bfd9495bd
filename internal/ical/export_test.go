package ical

import (
	"strings"
	"testing"
	"time"

	"coachhub/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func lesson(status domain.LessonStatus, start time.Time, notes string) domain.LessonEvent {
	return domain.LessonEvent{
		ID:           primitive.NewObjectID(),
		ClientID:     primitive.NewObjectID(),
		CoachID:      primitive.NewObjectID(),
		StartInstant: start,
		EndInstant:   start.Add(time.Hour),
		Status:       status,
		Notes:        notes,
		UpdatedAt:    start.Add(-24 * time.Hour),
	}
}

func TestLessonCalendarStructure(t *testing.T) {
	start := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	confirmed := lesson(domain.LessonConfirmed, start, "bring the bands")
	pending := lesson(domain.LessonPending, start.Add(7*24*time.Hour), "")
	declined := lesson(domain.LessonDeclined, start.Add(14*24*time.Hour), "")

	feed := LessonCalendar("My lessons", []domain.LessonEvent{confirmed, pending, declined})

	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Contains(t, feed, "METHOD:PUBLISH")
	assert.Contains(t, feed, "PRODID:-//coachhub//coaching-app//EN")

	require.Equal(t, 3, strings.Count(feed, "BEGIN:VEVENT"))
	assert.Contains(t, feed, confirmed.ID.Hex()+"@coachhub")
	assert.Contains(t, feed, "DTSTART:20240603T140000Z")
	assert.Contains(t, feed, "DTEND:20240603T150000Z")
	assert.Contains(t, feed, "DESCRIPTION:bring the bands")

	assert.Contains(t, feed, "STATUS:CONFIRMED")
	assert.Contains(t, feed, "STATUS:TENTATIVE")
	// Declined lessons ship as cancelled events so subscribers drop them.
	assert.Contains(t, feed, "STATUS:CANCELLED")
	assert.Contains(t, feed, "Coaching lesson (declined)")
}

func TestLessonCalendarEmpty(t *testing.T) {
	feed := LessonCalendar("My lessons", nil)
	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.NotContains(t, feed, "BEGIN:VEVENT")
}
