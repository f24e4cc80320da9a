package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/legalaudit/crvc/pkg/errors"
)

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	client   *mongo.Client
	database *mongo.Database
	jobs     *mongo.Collection
}

func NewMongoStore(uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(dbName)
	store := &MongoStore{
		client:   client,
		database: database,
		jobs:     database.Collection("jobs"),
	}

	if err := store.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return store, nil
}

func (ms *MongoStore) createIndexes(ctx context.Context) error {
	_, err := ms.jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (ms *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

func (ms *MongoStore) SaveJob(ctx context.Context, job *Job) error {
	_, err := ms.jobs.InsertOne(ctx, job)
	if mongo.IsDuplicateKeyError(err) {
		return errors.StorageError("job already exists", errors.ErrAlreadyExists)
	}
	if err != nil {
		return errors.StorageError("save job", err)
	}
	return nil
}

func (ms *MongoStore) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := ms.jobs.FindOne(ctx, bson.M{"id": id}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return nil, errors.StorageError("job not found", errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.StorageError("get job", err)
	}
	return &job, nil
}

func (ms *MongoStore) UpdateJob(ctx context.Context, job *Job) error {
	res, err := ms.jobs.ReplaceOne(ctx, bson.M{"id": job.ID}, job)
	if err != nil {
		return errors.StorageError("update job", err)
	}
	if res.MatchedCount == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ms *MongoStore) ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit)).SetSkip(int64(filter.Offset))
	}

	cursor, err := ms.jobs.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.StorageError("list jobs", err)
	}
	defer cursor.Close(ctx)

	var jobs []*Job
	for cursor.Next(ctx) {
		var job Job
		if err := cursor.Decode(&job); err != nil {
			return nil, errors.StorageError("decode job", err)
		}
		jobs = append(jobs, &job)
	}
	return jobs, cursor.Err()
}

func (ms *MongoStore) DeleteJob(ctx context.Context, id string) error {
	res, err := ms.jobs.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.StorageError("delete job", err)
	}
	if res.DeletedCount == 0 {
		return errors.StorageError("job not found", errors.ErrNotFound)
	}
	return nil
}

func (ms *MongoStore) Ping(ctx context.Context) error {
	return ms.client.Ping(ctx, nil)
}
