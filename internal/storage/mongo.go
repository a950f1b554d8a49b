// Package storage owns the MongoDB client. The client is safe for
// concurrent use and shared process-wide; repositories get collection
// handles from here.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/fq962/atom-challenge-api/internal/config"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

func (s *Store) Users() *mongo.Collection {
	return s.database.Collection(usersCollection)
}

func (s *Store) Tasks() *mongo.Collection {
	return s.database.Collection(tasksCollection)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
