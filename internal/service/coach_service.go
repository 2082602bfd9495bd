package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"coachhub/coaching-app/internal/schedule"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrUserNotClient      = errors.New("user with this email is not a client")
	ErrClientAlreadyTaken = errors.New("client is already managed by another coach")
	ErrInvalidProgramGrid = errors.New("invalid program grid")
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoAccessDenied  = errors.New("access denied to this video")
)

// AssignProgramParams carries a program assignment request. StartDate is a
// local calendar date string; the grid is taken as-is and becomes immutable
// once stored.
type AssignProgramParams struct {
	ProgramID     primitive.ObjectID
	Name          string
	StartDate     string // "2006-01-02", local
	DurationWeeks int
	Weeks         []domain.ProgramWeek
}

// UploadURLResult pairs a presigned PUT URL with the object key the client
// must report back when registering the video.
type UploadURLResult struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---

// CoachService covers the coach-side write operations: roster management,
// program/routine/video assignment and the video library.
type CoachService interface {
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	AssignProgram(ctx context.Context, coachID, clientID primitive.ObjectID, params AssignProgramParams) (*domain.ProgramAssignment, error)
	AssignRoutine(ctx context.Context, coachID, clientID, routineID primitive.ObjectID, name, startDate string) (*domain.RoutineAssignment, error)
	AssignVideo(ctx context.Context, coachID, clientID, videoID primitive.ObjectID, dueDate string) (*domain.VideoAssignment, error)
	RequestVideoUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (*UploadURLResult, error)
	AddVideoToLibrary(ctx context.Context, coachID primitive.ObjectID, title, objectKey, contentType string, size int64) (*domain.Video, error)
	DeleteVideoFromLibrary(ctx context.Context, coachID, videoID primitive.ObjectID) error
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	userRepo        repository.UserRepository
	programRepo     repository.ProgramAssignmentRepository
	routineRepo     repository.RoutineAssignmentRepository
	videoRepo       repository.VideoRepository
	videoAssignRepo repository.VideoAssignmentRepository
	fileStorage     storage.FileStorage
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	programRepo repository.ProgramAssignmentRepository,
	routineRepo repository.RoutineAssignmentRepository,
	videoRepo repository.VideoRepository,
	videoAssignRepo repository.VideoAssignmentRepository,
	fileStorage storage.FileStorage,
) CoachService {
	return &coachService{
		userRepo:        userRepo,
		programRepo:     programRepo,
		routineRepo:     routineRepo,
		videoRepo:       videoRepo,
		videoAssignRepo: videoAssignRepo,
		fileStorage:     fileStorage,
	}
}

// AddClientByEmail links an existing client account to this coach's roster.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrUserNotClient
	}
	if client.CoachID != nil {
		if *client.CoachID == coachID {
			return client, nil // Already managed by this coach; idempotent
		}
		return nil, ErrClientAlreadyTaken
	}

	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	client.CoachID = &coachID

	logrus.WithFields(logrus.Fields{
		"coachId":  coachID.Hex(),
		"clientId": client.ID.Hex(),
	}).Info("client added to coach roster")

	return client, nil
}

// GetManagedClients lists the coach's roster.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	return s.userRepo.GetClientsByCoachID(ctx, coachID)
}

// AssignProgram creates a client's program assignment from the supplied grid.
// The grid may be sparse (weeks or days omitted); omitted days compose as
// inactive. Week and day numbers must stay inside the declared duration.
func (s *coachService) AssignProgram(ctx context.Context, coachID, clientID primitive.ObjectID, params AssignProgramParams) (*domain.ProgramAssignment, error) {
	if err := s.verifyManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	startDate, err := schedule.ParseLocalDate(params.StartDate)
	if err != nil {
		return nil, err
	}
	if err := validateProgramGrid(params.DurationWeeks, params.Weeks); err != nil {
		return nil, err
	}

	assignment := &domain.ProgramAssignment{
		ClientID:      clientID,
		CoachID:       coachID,
		ProgramID:     params.ProgramID,
		Name:          params.Name,
		StartDate:     startDate.AtMidnightUTC(),
		DurationWeeks: params.DurationWeeks,
		Weeks:         params.Weeks,
	}
	id, err := s.programRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id

	logrus.WithFields(logrus.Fields{
		"coachId":      coachID.Hex(),
		"clientId":     clientID.Hex(),
		"assignmentId": id.Hex(),
		"startDate":    startDate.String(),
		"weeks":        params.DurationWeeks,
	}).Info("program assigned")

	return assignment, nil
}

// AssignRoutine attaches a single-day routine marker to a client.
func (s *coachService) AssignRoutine(ctx context.Context, coachID, clientID, routineID primitive.ObjectID, name, startDate string) (*domain.RoutineAssignment, error) {
	if err := s.verifyManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}
	date, err := schedule.ParseLocalDate(startDate)
	if err != nil {
		return nil, err
	}

	assignment := &domain.RoutineAssignment{
		ClientID:  clientID,
		CoachID:   coachID,
		RoutineID: routineID,
		Name:      name,
		StartDate: date.AtMidnightUTC(),
	}
	id, err := s.routineRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

// AssignVideo asks a client to watch a library video. dueDate may be empty;
// without one the assignment never appears on the calendar.
func (s *coachService) AssignVideo(ctx context.Context, coachID, clientID, videoID primitive.ObjectID, dueDate string) (*domain.VideoAssignment, error) {
	if err := s.verifyManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.CoachID != coachID {
		return nil, ErrVideoAccessDenied
	}

	var due *time.Time
	if dueDate != "" {
		d, err := schedule.ParseLocalDate(dueDate)
		if err != nil {
			return nil, err
		}
		t := d.AtMidnightUTC()
		due = &t
	}

	assignment := &domain.VideoAssignment{
		ClientID: clientID,
		CoachID:  coachID,
		VideoID:  videoID,
		DueDate:  due,
	}
	id, err := s.videoAssignRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

// RequestVideoUploadURL issues a presigned PUT URL for a new library video.
// The object key is generated server-side so coaches cannot overwrite each
// other's files.
func (s *coachService) RequestVideoUploadURL(ctx context.Context, coachID primitive.ObjectID, contentType string) (*UploadURLResult, error) {
	objectKey := fmt.Sprintf("videos/%s/%s", coachID.Hex(), uuid.NewString())
	url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResult{UploadURL: url, ObjectKey: objectKey}, nil
}

// AddVideoToLibrary registers an uploaded object as a library video.
func (s *coachService) AddVideoToLibrary(ctx context.Context, coachID primitive.ObjectID, title, objectKey, contentType string, size int64) (*domain.Video, error) {
	if title == "" || objectKey == "" {
		return nil, errors.New("title and object key cannot be empty")
	}

	video := &domain.Video{
		CoachID:     coachID,
		Title:       title,
		S3ObjectKey: objectKey,
		ContentType: contentType,
		Size:        size,
	}
	id, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		return nil, err
	}
	video.ID = id
	return video, nil
}

// DeleteVideoFromLibrary removes a library video and its S3 object. Existing
// assignments keep their videoId and surface as unresolvable; deleting a video
// that clients were assigned is the coach's call.
func (s *coachService) DeleteVideoFromLibrary(ctx context.Context, coachID, videoID primitive.ObjectID) error {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	if video.CoachID != coachID {
		return ErrVideoAccessDenied
	}

	// Metadata first: if the S3 delete fails afterwards the object is orphaned
	// but never dangling behind a live library entry.
	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, video.S3ObjectKey); err != nil {
		logrus.WithError(err).WithField("objectKey", video.S3ObjectKey).Warn("failed to delete video object from storage")
	}
	return nil
}

// verifyManagedClient checks the coach/client pairing.
func (s *coachService) verifyManagedClient(ctx context.Context, coachID, clientID primitive.ObjectID) error {
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

// validateProgramGrid rejects grids that reference cells outside the declared
// duration or carry duplicate week/day numbers.
func validateProgramGrid(durationWeeks int, weeks []domain.ProgramWeek) error {
	if durationWeeks < 1 {
		return fmt.Errorf("%w: duration must be at least one week", ErrInvalidProgramGrid)
	}
	seenWeeks := make(map[int]bool, len(weeks))
	for _, w := range weeks {
		if w.WeekNumber < 1 || w.WeekNumber > durationWeeks {
			return fmt.Errorf("%w: week number %d outside 1..%d", ErrInvalidProgramGrid, w.WeekNumber, durationWeeks)
		}
		if seenWeeks[w.WeekNumber] {
			return fmt.Errorf("%w: duplicate week number %d", ErrInvalidProgramGrid, w.WeekNumber)
		}
		seenWeeks[w.WeekNumber] = true

		seenDays := make(map[int]bool, len(w.Days))
		for _, d := range w.Days {
			if d.DayNumber < 1 || d.DayNumber > 7 {
				return fmt.Errorf("%w: day number %d outside 1..7 in week %d", ErrInvalidProgramGrid, d.DayNumber, w.WeekNumber)
			}
			if seenDays[d.DayNumber] {
				return fmt.Errorf("%w: duplicate day number %d in week %d", ErrInvalidProgramGrid, d.DayNumber, w.WeekNumber)
			}
			seenDays[d.DayNumber] = true
		}
	}
	return nil
}
