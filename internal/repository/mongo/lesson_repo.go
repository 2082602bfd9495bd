package mongo

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new Lesson repository backed by MongoDB.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// CreateMany inserts a batch of lessons (typically one recurrence expansion).
// Instants must already be UTC; timestamps and IDs are set here.
func (r *mongoLessonRepository) CreateMany(ctx context.Context, lessons []domain.LessonEvent) ([]primitive.ObjectID, error) {
	if len(lessons) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(lessons))
	ids := make([]primitive.ObjectID, 0, len(lessons))
	for i := range lessons {
		if lessons[i].ClientID == primitive.NilObjectID || lessons[i].CoachID == primitive.NilObjectID {
			return nil, errors.New("lesson requires clientId and coachId")
		}
		lessons[i].ID = primitive.NewObjectID()
		lessons[i].StartInstant = lessons[i].StartInstant.UTC()
		lessons[i].EndInstant = lessons[i].EndInstant.UTC()
		lessons[i].CreatedAt = now
		lessons[i].UpdatedAt = now
		if lessons[i].Status == "" {
			lessons[i].Status = domain.LessonPending
		}
		docs = append(docs, lessons[i])
		ids = append(ids, lessons[i].ID)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID retrieves a lesson by its ID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LessonEvent, error) {
	var lesson domain.LessonEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetByClientAndRange retrieves a client's lessons whose start instant falls
// in [from, to). Bounds are absolute UTC instants; the caller widens them
// enough to cover timezone offsets around the local-date window it composes.
func (r *mongoLessonRepository) GetByClientAndRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.LessonEvent, error) {
	var lessons []domain.LessonEvent
	filter := bson.M{
		"clientId":     clientID,
		"startInstant": bson.M{"$gte": from.UTC(), "$lt": to.UTC()},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "startInstant", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

// UpdateStatus applies a per-instance status transition.
func (r *mongoLessonRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error {
	update := bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureLessonIndexes creates necessary indexes for the lessons collection.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startInstant", Value: 1}}},
		{Keys: bson.D{{Key: "coachId", Value: 1}, {Key: "startInstant", Value: 1}}},
		{Keys: bson.D{{Key: "recurrenceGroupId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
