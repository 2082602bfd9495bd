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

const routineAssignmentCollectionName = "routine_assignments"

// mongoRoutineAssignmentRepository implements repository.RoutineAssignmentRepository
type mongoRoutineAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineAssignmentRepository creates a new RoutineAssignment repository backed by MongoDB.
func NewMongoRoutineAssignmentRepository(db *mongo.Database) repository.RoutineAssignmentRepository {
	return &mongoRoutineAssignmentRepository{
		collection: db.Collection(routineAssignmentCollectionName),
	}
}

// Create inserts a new routine assignment.
func (r *mongoRoutineAssignmentRepository) Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error) {
	if assignment.ClientID == primitive.NilObjectID || assignment.RoutineID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("routine assignment requires clientId and routineId")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine assignment ID")
	}
	return insertedID, nil
}

// GetByClientID retrieves all routine assignments for a specific client.
func (r *mongoRoutineAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	var assignments []domain.RoutineAssignment
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

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

// EnsureRoutineAssignmentIndexes creates necessary indexes for the routine_assignments collection.
func EnsureRoutineAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
