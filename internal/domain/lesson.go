package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonStatus type for lesson lifecycle
type LessonStatus string

const (
	LessonConfirmed LessonStatus = "confirmed"
	LessonPending   LessonStatus = "pending"
	LessonDeclined  LessonStatus = "declined"
)

// LessonEvent is one coached lesson occurrence. Instants are always absolute
// UTC; all local-date math happens in the caller's declared timezone.
//
// A recurring batch shares a RecurrenceGroupID, but every instance is an
// independently mutable record - status transitions apply per instance.
type LessonEvent struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID           primitive.ObjectID `bson:"coachId" json:"coachId"`
	StartInstant      time.Time          `bson:"startInstant" json:"startInstant"` // UTC
	EndInstant        time.Time          `bson:"endInstant" json:"endInstant"`     // UTC
	Status            LessonStatus       `bson:"status" json:"status"`
	RecurrenceGroupID string             `bson:"recurrenceGroupId,omitempty" json:"recurrenceGroupId,omitempty"` // UUID shared by a recurring batch
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
