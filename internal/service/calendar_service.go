package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/ical"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/schedule"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidComplianceWindow = errors.New("compliance window must be 4, 6 or 8 weeks, or 0 for all time")
)

// Lesson feed bounds around "now" for the iCalendar export.
const (
	feedLookBehind = 8 * 7 * 24 * time.Hour
	feedLookAhead  = 26 * 7 * 24 * time.Hour
)

// --- Service Interface ---

// CalendarService is the read path: it fetches a client's records and runs
// the pure composition engine over them. All date math is driven by the
// caller-supplied "now" and timezone, never the server's own zone.
type CalendarService interface {
	GetDayView(ctx context.Context, clientID primitive.ObjectID, date, timezone string) (*schedule.DayView, error)
	GetCompliance(ctx context.Context, clientID primitive.ObjectID, windowWeeks int, timezone string, now time.Time) (*schedule.ComplianceWindow, error)
	LessonFeed(ctx context.Context, clientID primitive.ObjectID, now time.Time) (string, error)
	CompleteProgramDay(ctx context.Context, clientID, assignmentID primitive.ObjectID, date string) error
}

// --- Service Implementation ---

// calendarService implements the CalendarService interface.
type calendarService struct {
	programRepo     repository.ProgramAssignmentRepository
	replacementRepo repository.ReplacementRepository
	routineRepo     repository.RoutineAssignmentRepository
	videoAssignRepo repository.VideoAssignmentRepository
	lessonRepo      repository.LessonRepository
	completionRepo  repository.CompletionRepository
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(
	programRepo repository.ProgramAssignmentRepository,
	replacementRepo repository.ReplacementRepository,
	routineRepo repository.RoutineAssignmentRepository,
	videoAssignRepo repository.VideoAssignmentRepository,
	lessonRepo repository.LessonRepository,
	completionRepo repository.CompletionRepository,
) CalendarService {
	return &calendarService{
		programRepo:     programRepo,
		replacementRepo: replacementRepo,
		routineRepo:     routineRepo,
		videoAssignRepo: videoAssignRepo,
		lessonRepo:      lessonRepo,
		completionRepo:  completionRepo,
	}
}

// GetDayView composes the complete visible-item set for one client and one
// local calendar date in the given zone.
func (s *calendarService) GetDayView(ctx context.Context, clientID primitive.ObjectID, date, timezone string) (*schedule.DayView, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	localDate, err := schedule.ParseLocalDate(date)
	if err != nil {
		return nil, err
	}

	in, err := s.fetchComposeInput(ctx, clientID, localDate, localDate)
	if err != nil {
		return nil, err
	}

	view := schedule.ComposeDay(clientID, localDate, loc, *in)
	return &view, nil
}

// GetCompliance aggregates program workout-day completion across a rolling
// window (4/6/8 weeks) anchored at "today" in the given zone, or across all
// time when windowWeeks is 0.
func (s *calendarService) GetCompliance(ctx context.Context, clientID primitive.ObjectID, windowWeeks int, timezone string, now time.Time) (*schedule.ComplianceWindow, error) {
	switch windowWeeks {
	case 0, 4, 6, 8:
	default:
		return nil, ErrInvalidComplianceWindow
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	today := schedule.NewClock(now).Today(loc)

	assignments, err := s.programRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var earliest schedule.LocalDate
	assignmentIDs := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
		start := schedule.DateOf(a.StartDate)
		if earliest.IsZero() || start.Before(earliest) {
			earliest = start
		}
	}

	start, end := schedule.ComplianceRange(windowWeeks, today, earliest)

	replacements, err := s.replacementRepo.GetByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.GetByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}

	done := make(schedule.CompletionSet, len(completions))
	for _, c := range completions {
		done[schedule.CompletionKey{
			AssignmentID: c.AssignmentID,
			Date:         schedule.DateOf(c.Date),
		}] = struct{}{}
	}

	// Compliance only counts program items; lessons, routines and videos are
	// irrelevant to the denominator and are not fetched.
	views := schedule.ComposeRange(clientID, start, end, loc, schedule.ComposeInput{
		Assignments:  assignments,
		Replacements: replacements,
	})

	window := schedule.AggregateCompliance(windowWeeks, views, done)
	return &window, nil
}

// LessonFeed serializes the client's lessons around "now" as an iCalendar
// document for calendar-app subscriptions.
func (s *calendarService) LessonFeed(ctx context.Context, clientID primitive.ObjectID, now time.Time) (string, error) {
	lessons, err := s.lessonRepo.GetByClientAndRange(ctx, clientID, now.Add(-feedLookBehind), now.Add(feedLookAhead))
	if err != nil {
		return "", err
	}
	return ical.LessonCalendar("Coaching lessons", lessons), nil
}

// CompleteProgramDay marks one program day done for compliance tracking.
// Idempotent; marking the same day twice is a no-op.
func (s *calendarService) CompleteProgramDay(ctx context.Context, clientID, assignmentID primitive.ObjectID, date string) error {
	assignment, err := s.programRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.ClientID != clientID {
		return ErrAssignmentAccessDenied
	}

	localDate, err := schedule.ParseLocalDate(date)
	if err != nil {
		return err
	}

	return s.completionRepo.Create(ctx, &domain.ProgramDayCompletion{
		AssignmentID: assignmentID,
		Date:         localDate.AtMidnightUTC(),
	})
}

// fetchComposeInput gathers every record stream composition needs for the
// [from, to] local-date range. The lesson query widens the bounds by a day on
// each side; no real timezone offset exceeds that, and the composer filters
// by exact local date anyway.
func (s *calendarService) fetchComposeInput(ctx context.Context, clientID primitive.ObjectID, from, to schedule.LocalDate) (*schedule.ComposeInput, error) {
	assignments, err := s.programRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	assignmentIDs := make([]primitive.ObjectID, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}
	replacements, err := s.replacementRepo.GetByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.GetByClientAndRange(ctx, clientID,
		from.AddDays(-1).AtMidnightUTC(), to.AddDays(2).AtMidnightUTC())
	if err != nil {
		return nil, err
	}

	routines, err := s.routineRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoAssignRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	return &schedule.ComposeInput{
		Assignments:  assignments,
		Replacements: replacements,
		Lessons:      lessons,
		Routines:     routines,
		Videos:       videos,
	}, nil
}
