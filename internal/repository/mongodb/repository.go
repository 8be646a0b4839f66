package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/damagelog/internal/domain/models"
)

const submissionsCollection = "submissions"

// Repository defines the interface for the submission archive.
type Repository interface {
	SaveSubmission(ctx context.Context, record models.SubmissionRecord) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: submissionsCollection,
	}, nil
}

// SaveSubmission stores one accepted submission.
func (r *MongoDBRepository) SaveSubmission(ctx context.Context, record models.SubmissionRecord) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert submission for pallet %s: %w", record.Pallet, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
