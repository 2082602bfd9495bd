package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkItem is a single piece of work inside a program day (an exercise with
// its prescription, a drill, a conditioning block).
type WorkItem struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Sets  int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps  int                `bson:"reps,omitempty" json:"reps,omitempty"`
	Notes string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ProgramDay is one cell of a program's week/day grid. DayNumber is 1-based
// within its week (1..7).
type ProgramDay struct {
	DayNumber int        `bson:"dayNumber" json:"dayNumber"`
	IsRestDay bool       `bson:"isRestDay" json:"isRestDay"`
	WorkItems []WorkItem `bson:"workItems,omitempty" json:"workItems,omitempty"`
}

// ProgramWeek groups the days of one program week. WeekNumber is 1-based.
type ProgramWeek struct {
	WeekNumber int          `bson:"weekNumber" json:"weekNumber"`
	Days       []ProgramDay `bson:"days" json:"days"`
}

// ProgramAssignment is a client's instance of a multi-week program, anchored
// to a local calendar start date. The grid is immutable once created; only
// replacement bookkeeping accumulates alongside it.
type ProgramAssignment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized for easier queries/auth
	ProgramID     primitive.ObjectID `bson:"programId" json:"programId"`
	Name          string             `bson:"name" json:"name"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"` // Local calendar date stored at UTC midnight
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	Weeks         []ProgramWeek      `bson:"weeks" json:"weeks"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReplacementRecord marks a program day as substituted by a coached lesson.
// Keyed by (assignmentId, replacedDate), not by programId, so a shared program
// never leaks replacements across clients. Append-only, never mutated.
type ReplacementRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignmentId" json:"assignmentId"`
	ReplacedDate time.Time          `bson:"replacedDate" json:"replacedDate"` // Local calendar date stored at UTC midnight
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgramDayCompletion records that a client finished the program day of a
// given local date. Created by the client-side completion workflow; the
// compliance aggregator only counts these, it never writes them.
type ProgramDayCompletion struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignmentId" json:"assignmentId"`
	Date         time.Time          `bson:"date" json:"date"` // Local calendar date stored at UTC midnight
	CompletedAt  time.Time          `bson:"completedAt" json:"completedAt"`
}
