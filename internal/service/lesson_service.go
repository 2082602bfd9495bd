package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/schedule"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotManaged        = errors.New("client is not managed by this coach")
	ErrAssignmentNotFound      = errors.New("program assignment not found")
	ErrAssignmentAccessDenied  = errors.New("access denied to this program assignment")
	ErrLessonNotFound          = errors.New("lesson not found")
	ErrLessonAccessDenied      = errors.New("access denied to this lesson")
	ErrInvalidStatusTransition = errors.New("invalid lesson status transition")
	ErrHorizonExceeded         = errors.New("recurrence end date exceeds the scheduling horizon")
)

// RecurringLessonParams carries the coach's recurring-lesson request as it
// arrives from the API layer: local wall-clock inputs plus the zone they are
// expressed in.
type RecurringLessonParams struct {
	StartDate string // "2006-01-02", local
	EndDate   string // "2006-01-02", local
	TimeOfDay string // "15:04", local
	Timezone  string // IANA zone name
	Cadence   schedule.Cadence
	Interval  int
	Notes     string
}

// RecurringLessonResult reports the outcome of a batch request. Skipped
// carries the dates the engine rejected and why, so the API can tell the
// coach exactly what was not scheduled.
type RecurringLessonResult struct {
	Created []domain.LessonEvent
	Skipped []schedule.SkippedSlot
}

// --- Service Interface ---
type LessonService interface {
	ScheduleRecurring(ctx context.Context, coachID, clientID primitive.ObjectID, params RecurringLessonParams, now time.Time) (*RecurringLessonResult, error)
	ReplaceProgramDay(ctx context.Context, coachID, assignmentID primitive.ObjectID, date, timeOfDay, timezone string, now time.Time) (*domain.LessonEvent, error)
	UpdateStatus(ctx context.Context, userID primitive.ObjectID, role domain.Role, lessonID primitive.ObjectID, status domain.LessonStatus) (*domain.LessonEvent, error)
}

// --- Service Implementation ---

// lessonService implements the LessonService interface. It owns the write
// path: recurrence expansion and instant building run in the pure engine,
// persistence happens here.
type lessonService struct {
	userRepo        repository.UserRepository
	lessonRepo      repository.LessonRepository
	programRepo     repository.ProgramAssignmentRepository
	replacementRepo repository.ReplacementRepository
	maxHorizon      time.Duration
}

// NewLessonService creates a new instance of lessonService.
func NewLessonService(
	userRepo repository.UserRepository,
	lessonRepo repository.LessonRepository,
	programRepo repository.ProgramAssignmentRepository,
	replacementRepo repository.ReplacementRepository,
	maxHorizon time.Duration,
) LessonService {
	return &lessonService{
		userRepo:        userRepo,
		lessonRepo:      lessonRepo,
		programRepo:     programRepo,
		replacementRepo: replacementRepo,
		maxHorizon:      maxHorizon,
	}
}

// ScheduleRecurring expands the recurrence, builds future lesson instants and
// persists the valid ones as a batch sharing one recurrence group ID. Dates
// the engine rejects (past instants, DST gaps) are reported per instance in
// the result; only ErrInvalidRecurrence aborts the whole request.
func (s *lessonService) ScheduleRecurring(ctx context.Context, coachID, clientID primitive.ObjectID, params RecurringLessonParams, now time.Time) (*RecurringLessonResult, error) {
	if err := s.verifyManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(params.Timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	startDate, err := schedule.ParseLocalDate(params.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := schedule.ParseLocalDate(params.EndDate)
	if err != nil {
		return nil, err
	}
	at, err := schedule.ParseTimeOfDay(params.TimeOfDay)
	if err != nil {
		return nil, err
	}

	if s.maxHorizon > 0 && endDate.AtMidnightUTC().After(now.Add(s.maxHorizon)) {
		return nil, ErrHorizonExceeded
	}

	dates, err := schedule.ExpandRecurrence(schedule.RecurrenceRequest{
		Start:    startDate,
		End:      endDate,
		Cadence:  params.Cadence,
		Interval: params.Interval,
		Timezone: params.Timezone,
	})
	if err != nil {
		return nil, err
	}

	slots, skipped := schedule.BuildLessonSlots(dates, at, loc, now)
	result := &RecurringLessonResult{Skipped: skipped}
	if len(slots) == 0 {
		return result, nil
	}

	groupID := uuid.NewString()
	lessons := make([]domain.LessonEvent, 0, len(slots))
	for _, slot := range slots {
		lessons = append(lessons, domain.LessonEvent{
			ClientID:          clientID,
			CoachID:           coachID,
			StartInstant:      slot.Start,
			EndInstant:        slot.End,
			Status:            domain.LessonPending,
			RecurrenceGroupID: groupID,
			Notes:             params.Notes,
		})
	}

	if _, err := s.lessonRepo.CreateMany(ctx, lessons); err != nil {
		return nil, err
	}
	result.Created = lessons

	logrus.WithFields(logrus.Fields{
		"coachId":           coachID.Hex(),
		"clientId":          clientID.Hex(),
		"recurrenceGroupId": groupID,
		"created":           len(lessons),
		"skipped":           len(skipped),
	}).Info("recurring lessons scheduled")

	return result, nil
}

// ReplaceProgramDay substitutes a coached lesson for one program day: it
// creates the lesson and records the replacement so composition suppresses
// the program day from then on. The replacement is permanent.
func (s *lessonService) ReplaceProgramDay(ctx context.Context, coachID, assignmentID primitive.ObjectID, date, timeOfDay, timezone string, now time.Time) (*domain.LessonEvent, error) {
	assignment, err := s.programRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.CoachID != coachID {
		return nil, ErrAssignmentAccessDenied
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	localDate, err := schedule.ParseLocalDate(date)
	if err != nil {
		return nil, err
	}
	at, err := schedule.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}

	slots, skipped := schedule.BuildLessonSlots([]schedule.LocalDate{localDate}, at, loc, now)
	if len(skipped) > 0 {
		return nil, skipped[0].Reason
	}

	lessons := []domain.LessonEvent{{
		ClientID:     assignment.ClientID,
		CoachID:      coachID,
		StartInstant: slots[0].Start,
		EndInstant:   slots[0].End,
		Status:       domain.LessonPending,
	}}
	if _, err := s.lessonRepo.CreateMany(ctx, lessons); err != nil {
		return nil, err
	}

	// Lesson first, then the marker: a failure here leaves an extra lesson
	// visible alongside the program day, never a suppressed day with no lesson.
	if err := s.replacementRepo.Create(ctx, &domain.ReplacementRecord{
		AssignmentID: assignmentID,
		ReplacedDate: localDate.AtMidnightUTC(),
	}); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"assignmentId": assignmentID.Hex(),
		"date":         localDate.String(),
	}).Info("program day replaced with lesson")

	return &lessons[0], nil
}

// UpdateStatus applies a confirm/decline transition to one lesson instance.
// Clients may act on their own lessons, coaches on lessons they give.
func (s *lessonService) UpdateStatus(ctx context.Context, userID primitive.ObjectID, role domain.Role, lessonID primitive.ObjectID, status domain.LessonStatus) (*domain.LessonEvent, error) {
	if status != domain.LessonConfirmed && status != domain.LessonDeclined {
		return nil, ErrInvalidStatusTransition
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	switch role {
	case domain.RoleClient:
		if lesson.ClientID != userID {
			return nil, ErrLessonAccessDenied
		}
	case domain.RoleCoach:
		if lesson.CoachID != userID {
			return nil, ErrLessonAccessDenied
		}
	default:
		return nil, ErrLessonAccessDenied
	}

	if err := s.lessonRepo.UpdateStatus(ctx, lessonID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Status = status
	return lesson, nil
}

// verifyManagedClient checks the coach/client pairing.
func (s *lessonService) verifyManagedClient(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotManaged
		}
		return err
	}
	if client.Role != domain.RoleClient || client.CoachID == nil || *client.CoachID != coachID {
		return ErrClientNotManaged
	}
	return nil
}
