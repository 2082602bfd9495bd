package repository

import (
	"coachhub/coaching-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// ProgramAssignmentRepository manages clients' program assignments. The grid
// is write-once; there is deliberately no Update method.
type ProgramAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error)
}

// ReplacementRepository manages replacement records. Records are append-only:
// Create is idempotent on (assignmentId, replacedDate) and there is no
// deletion path.
type ReplacementRepository interface {
	Create(ctx context.Context, rec *domain.ReplacementRecord) error
	GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ReplacementRecord, error)
}

// RoutineAssignmentRepository manages single-day routine markers.
type RoutineAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error)
}

// VideoRepository manages coach video-library metadata.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// VideoAssignmentRepository manages video assignments and their due dates.
type VideoAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.VideoAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoAssignment, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoAssignment, error)
}

// LessonRepository manages lesson events. Batches from recurrence expansion
// are inserted together; afterwards only per-instance status transitions
// mutate them.
type LessonRepository interface {
	CreateMany(ctx context.Context, lessons []domain.LessonEvent) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LessonEvent, error)
	GetByClientAndRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.LessonEvent, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error
}

// CompletionRepository manages program-day completion marks.
type CompletionRepository interface {
	Create(ctx context.Context, completion *domain.ProgramDayCompletion) error
	GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ProgramDayCompletion, error)
}
