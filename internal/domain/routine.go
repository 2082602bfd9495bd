package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineAssignment attaches a standalone routine to a client on a single
// local calendar date. It has no recurrence and no duration window; the
// calendar shows it only on its exact start date.
type RoutineAssignment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized
	RoutineID primitive.ObjectID `bson:"routineId" json:"routineId"`
	Name      string             `bson:"name" json:"name"`
	StartDate time.Time          `bson:"startDate" json:"startDate"` // Local calendar date stored at UTC midnight
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
