package service

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Each one keeps just enough behavior for the
// service tests: ID assignment on create, the same filters the Mongo
// implementations apply, and repository.ErrNotFound on misses.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) AddClientIDToCoach(_ context.Context, coachID, clientID primitive.ObjectID) error {
	if coach, ok := r.users[coachID]; ok {
		coach.ClientIDs = append(coach.ClientIDs, clientID)
	}
	return nil
}

func (r *fakeUserRepo) SetCoachForClient(_ context.Context, clientID, coachID primitive.ObjectID) error {
	if client, ok := r.users[clientID]; ok {
		client.CoachID = &coachID
	}
	return nil
}

func (r *fakeUserRepo) GetClientsByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeLessonRepo struct {
	lessons []domain.LessonEvent
}

func (r *fakeLessonRepo) CreateMany(_ context.Context, lessons []domain.LessonEvent) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(lessons))
	for i := range lessons {
		lessons[i].ID = primitive.NewObjectID()
		ids[i] = lessons[i].ID
	}
	r.lessons = append(r.lessons, lessons...)
	return ids, nil
}

func (r *fakeLessonRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.LessonEvent, error) {
	for i := range r.lessons {
		if r.lessons[i].ID == id {
			l := r.lessons[i]
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLessonRepo) GetByClientAndRange(_ context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.LessonEvent, error) {
	var out []domain.LessonEvent
	for _, l := range r.lessons {
		if l.ClientID == clientID && !l.StartInstant.Before(from) && l.StartInstant.Before(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.LessonStatus) error {
	for i := range r.lessons {
		if r.lessons[i].ID == id {
			r.lessons[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeProgramRepo struct {
	assignments []domain.ProgramAssignment
}

func (r *fakeProgramRepo) Create(_ context.Context, a *domain.ProgramAssignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	r.assignments = append(r.assignments, *a)
	return a.ID, nil
}

func (r *fakeProgramRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	for i := range r.assignments {
		if r.assignments[i].ID == id {
			a := r.assignments[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProgramRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	var out []domain.ProgramAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeReplacementRepo struct {
	records []domain.ReplacementRecord
}

func (r *fakeReplacementRepo) Create(_ context.Context, rec *domain.ReplacementRecord) error {
	for _, existing := range r.records {
		if existing.AssignmentID == rec.AssignmentID && existing.ReplacedDate.Equal(rec.ReplacedDate) {
			return nil // Idempotent on (assignmentId, replacedDate)
		}
	}
	rec.ID = primitive.NewObjectID()
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeReplacementRepo) GetByAssignmentIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ReplacementRecord, error) {
	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var out []domain.ReplacementRecord
	for _, rec := range r.records {
		if idSet[rec.AssignmentID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeRoutineRepo struct {
	assignments []domain.RoutineAssignment
}

func (r *fakeRoutineRepo) Create(_ context.Context, a *domain.RoutineAssignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	r.assignments = append(r.assignments, *a)
	return a.ID, nil
}

func (r *fakeRoutineRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	var out []domain.RoutineAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeVideoRepo struct {
	videos []domain.Video
}

func (r *fakeVideoRepo) Create(_ context.Context, v *domain.Video) (primitive.ObjectID, error) {
	v.ID = primitive.NewObjectID()
	r.videos = append(r.videos, *v)
	return v.ID, nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	for i := range r.videos {
		if r.videos[i].ID == id {
			v := r.videos[i]
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i := range r.videos {
		if r.videos[i].ID == id {
			r.videos = append(r.videos[:i], r.videos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeVideoAssignRepo struct {
	assignments []domain.VideoAssignment
}

func (r *fakeVideoAssignRepo) Create(_ context.Context, a *domain.VideoAssignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	r.assignments = append(r.assignments, *a)
	return a.ID, nil
}

func (r *fakeVideoAssignRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.VideoAssignment, error) {
	for i := range r.assignments {
		if r.assignments[i].ID == id {
			a := r.assignments[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoAssignRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.VideoAssignment, error) {
	var out []domain.VideoAssignment
	for _, a := range r.assignments {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCompletionRepo struct {
	completions []domain.ProgramDayCompletion
}

func (r *fakeCompletionRepo) Create(_ context.Context, c *domain.ProgramDayCompletion) error {
	for _, existing := range r.completions {
		if existing.AssignmentID == c.AssignmentID && existing.Date.Equal(c.Date) {
			return nil // Idempotent on (assignmentId, date)
		}
	}
	c.ID = primitive.NewObjectID()
	c.CompletedAt = time.Now()
	r.completions = append(r.completions, *c)
	return nil
}

func (r *fakeCompletionRepo) GetByAssignmentIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.ProgramDayCompletion, error) {
	idSet := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var out []domain.ProgramDayCompletion
	for _, c := range r.completions {
		if idSet[c.AssignmentID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// coachWithClient builds a linked coach/client pair for tests.
func coachWithClient() (*domain.User, *domain.User) {
	coachID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	coach := &domain.User{ID: coachID, Name: "Coach", Email: "coach@example.com", Role: domain.RoleCoach, ClientIDs: []primitive.ObjectID{clientID}}
	client := &domain.User{ID: clientID, Name: "Client", Email: "client@example.com", Role: domain.RoleClient, CoachID: &coachID}
	return coach, client
}
