package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video stores metadata about a coach's video library entry.
// The actual file resides in S3.
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Title       string             `bson:"title" json:"title"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // The unique key (path/filename) in the S3 bucket - internal use
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size,omitempty" json:"size,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// VideoAssignment asks a client to watch a library video, optionally by a due
// date. The calendar shows it only on its due date, if one is set.
type VideoAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized
	VideoID   primitive.ObjectID `bson:"videoId" json:"videoId"`
	DueDate   *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"` // Local calendar date stored at UTC midnight (pointer for nullability)
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
