package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureAllIndexes creates the indexes for every collection. Called once at
// startup; index creation is idempotent on the server side.
func EnsureAllIndexes(ctx context.Context, db *mongo.Database) error {
	setups := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{programAssignmentCollectionName, EnsureProgramAssignmentIndexes},
		{replacementCollectionName, EnsureReplacementIndexes},
		{completionCollectionName, EnsureCompletionIndexes},
		{routineAssignmentCollectionName, EnsureRoutineAssignmentIndexes},
		{videoCollectionName, EnsureVideoIndexes},
		{videoAssignmentCollectionName, EnsureVideoAssignmentIndexes},
		{lessonCollectionName, EnsureLessonIndexes},
	}
	for _, s := range setups {
		if err := s.ensure(ctx, db.Collection(s.collection)); err != nil {
			return err
		}
	}
	return nil
}
