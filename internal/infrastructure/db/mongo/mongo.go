package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database. A default timeout
// is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Username and
// project code are unique only among active documents, so a tombstoned
// record never collides with a re-created key.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	activeOnly := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"is_deleted": false})

	userIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: activeOnly,
	}
	if _, err := db.Collection(userCollection).Indexes().CreateOne(ctx, userIdx); err != nil {
		return fmt.Errorf("create user index: %w", err)
	}

	projectIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "project_code", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_deleted": false}),
	}
	if _, err := db.Collection(projectCollection).Indexes().CreateOne(ctx, projectIdx); err != nil {
		return fmt.Errorf("create project index: %w", err)
	}

	taskIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "assigned_employee", Value: 1}, {Key: "status", Value: 1}},
	}
	if _, err := db.Collection(taskCollection).Indexes().CreateOne(ctx, taskIdx); err != nil {
		return fmt.Errorf("create task index: %w", err)
	}

	return nil
}
