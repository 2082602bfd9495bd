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

const (
	videoCollectionName           = "videos"
	videoAssignmentCollectionName = "video_assignments"
)

// mongoVideoRepository implements repository.VideoRepository
type mongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new Video repository backed by MongoDB.
func NewMongoVideoRepository(db *mongo.Database) repository.VideoRepository {
	return &mongoVideoRepository{
		collection: db.Collection(videoCollectionName),
	}
}

// Create inserts a new video library entry. The actual file lives in S3
// under S3ObjectKey.
func (r *mongoVideoRepository) Create(ctx context.Context, video *domain.Video) (primitive.ObjectID, error) {
	if video.CoachID == primitive.NilObjectID || video.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("video requires coachId and s3ObjectKey")
	}

	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, video)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted video ID")
	}
	return insertedID, nil
}

// GetByID retrieves a video library entry by its ID.
func (r *mongoVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	var video domain.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// Delete removes a video library entry.
func (r *mongoVideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureVideoIndexes creates necessary indexes for the videos collection.
func EnsureVideoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "coachId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// --- Video Assignments ---

// mongoVideoAssignmentRepository implements repository.VideoAssignmentRepository
type mongoVideoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoAssignmentRepository creates a new VideoAssignment repository backed by MongoDB.
func NewMongoVideoAssignmentRepository(db *mongo.Database) repository.VideoAssignmentRepository {
	return &mongoVideoAssignmentRepository{
		collection: db.Collection(videoAssignmentCollectionName),
	}
}

// Create inserts a new video assignment.
func (r *mongoVideoAssignmentRepository) Create(ctx context.Context, assignment *domain.VideoAssignment) (primitive.ObjectID, error) {
	if assignment.ClientID == primitive.NilObjectID || assignment.VideoID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("video assignment requires clientId and videoId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted video assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a video assignment by its ID.
func (r *mongoVideoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.VideoAssignment, error) {
	var assignment domain.VideoAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClientID retrieves all video assignments for a specific client.
func (r *mongoVideoAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.VideoAssignment, error) {
	var assignments []domain.VideoAssignment
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// EnsureVideoAssignmentIndexes creates necessary indexes for the video_assignments collection.
func EnsureVideoAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "dueDate", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
