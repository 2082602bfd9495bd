// Package ical renders a client's lesson schedule as an iCalendar feed so
// lessons can be subscribed to from external calendar apps.
package ical

import (
	"coachhub/coaching-app/internal/domain"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//coachhub//coaching-app//EN"

// LessonCalendar serializes lessons into an iCalendar document. Instants are
// emitted as UTC; subscribing calendar apps render them in the viewer's zone.
// Declined lessons are included as cancelled events rather than omitted, so
// a feed refresh removes them from subscribers' calendars.
func LessonCalendar(calendarName string, lessons []domain.LessonEvent) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(calendarName)

	for _, l := range lessons {
		ev := cal.AddEvent(l.ID.Hex() + "@coachhub")
		ev.SetDtStampTime(l.UpdatedAt.UTC())
		ev.SetStartAt(l.StartInstant.UTC())
		ev.SetEndAt(l.EndInstant.UTC())
		ev.SetSummary(summaryFor(l))
		if l.Notes != "" {
			ev.SetDescription(l.Notes)
		}
		ev.SetStatus(statusFor(l.Status))
	}

	return cal.Serialize()
}

func summaryFor(l domain.LessonEvent) string {
	switch l.Status {
	case domain.LessonPending:
		return "Coaching lesson (pending)"
	case domain.LessonDeclined:
		return "Coaching lesson (declined)"
	default:
		return "Coaching lesson"
	}
}

func statusFor(s domain.LessonStatus) ics.ObjectStatus {
	switch s {
	case domain.LessonConfirmed:
		return ics.ObjectStatusConfirmed
	case domain.LessonDeclined:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusTentative
	}
}
