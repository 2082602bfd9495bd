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
	programAssignmentCollectionName = "program_assignments"
	replacementCollectionName       = "replacements"
	completionCollectionName        = "program_day_completions"
)

// mongoProgramAssignmentRepository implements repository.ProgramAssignmentRepository
type mongoProgramAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramAssignmentRepository creates a new ProgramAssignment repository backed by MongoDB.
func NewMongoProgramAssignmentRepository(db *mongo.Database) repository.ProgramAssignmentRepository {
	return &mongoProgramAssignmentRepository{
		collection: db.Collection(programAssignmentCollectionName),
	}
}

// Create inserts a new program assignment. The week/day grid is stored as
// authored; the scheduling engine tolerates sparse grids at read time.
func (r *mongoProgramAssignmentRepository) Create(ctx context.Context, assignment *domain.ProgramAssignment) (primitive.ObjectID, error) {
	if assignment.ClientID == primitive.NilObjectID ||
		assignment.CoachID == primitive.NilObjectID ||
		assignment.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program assignment requires clientId, coachId and programId")
	}
	if assignment.DurationWeeks < 1 {
		return primitive.NilObjectID, errors.New("program assignment requires a positive durationWeeks")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a program assignment by its ID.
func (r *mongoProgramAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramAssignment, error) {
	var assignment domain.ProgramAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByClientID retrieves all program assignments for a specific client.
func (r *mongoProgramAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramAssignment, error) {
	var assignments []domain.ProgramAssignment
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

// EnsureProgramAssignmentIndexes creates necessary indexes for the program_assignments collection.
func EnsureProgramAssignmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "startDate", Value: 1}}},
		{Keys: bson.D{{Key: "coachId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// --- Replacements ---

// mongoReplacementRepository implements repository.ReplacementRepository
type mongoReplacementRepository struct {
	collection *mongo.Collection
}

// NewMongoReplacementRepository creates a new Replacement repository backed by MongoDB.
func NewMongoReplacementRepository(db *mongo.Database) repository.ReplacementRepository {
	return &mongoReplacementRepository{
		collection: db.Collection(replacementCollectionName),
	}
}

// Create records a replacement for (assignmentId, replacedDate). Upsert on
// the pair makes repeated calls idempotent; the unique index backs this up
// against concurrent writers.
func (r *mongoReplacementRepository) Create(ctx context.Context, rec *domain.ReplacementRecord) error {
	if rec.AssignmentID == primitive.NilObjectID {
		return errors.New("replacement requires assignmentId")
	}

	filter := bson.M{"assignmentId": rec.AssignmentID, "replacedDate": rec.ReplacedDate}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"assignmentId": rec.AssignmentID,
			"replacedDate": rec.ReplacedDate,
			"createdAt":    time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByAssignmentIDs retrieves all replacement records for the given assignments.
func (r *mongoReplacementRepository) GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ReplacementRecord, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	var records []domain.ReplacementRecord
	filter := bson.M{"assignmentId": bson.M{"$in": assignmentIDs}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureReplacementIndexes creates necessary indexes for the replacements collection.
func EnsureReplacementIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "replacedDate", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// --- Completions ---

// mongoCompletionRepository implements repository.CompletionRepository
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new Completion repository backed by MongoDB.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Create marks a program day as completed. Idempotent on (assignmentId, date).
func (r *mongoCompletionRepository) Create(ctx context.Context, completion *domain.ProgramDayCompletion) error {
	if completion.AssignmentID == primitive.NilObjectID {
		return errors.New("completion requires assignmentId")
	}

	filter := bson.M{"assignmentId": completion.AssignmentID, "date": completion.Date}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"assignmentId": completion.AssignmentID,
			"date":         completion.Date,
			"completedAt":  time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByAssignmentIDs retrieves all completions for the given assignments.
func (r *mongoCompletionRepository) GetByAssignmentIDs(ctx context.Context, assignmentIDs []primitive.ObjectID) ([]domain.ProgramDayCompletion, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	var completions []domain.ProgramDayCompletion
	filter := bson.M{"assignmentId": bson.M{"$in": assignmentIDs}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return completions, nil
}

// EnsureCompletionIndexes creates necessary indexes for the program_day_completions collection.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
