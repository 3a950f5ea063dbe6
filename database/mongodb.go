// Package database manages the process-wide store, cache, and broker clients.
// Each client is opened once at startup and closed in LIFO order on shutdown.
package database

import (
	"context"
	"fmt"
	"log"

	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDB wraps the driver client together with the configured database handle
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	config   config.MongoDBConfig
}

// NewMongoDB connects to the store with the configured pool bounds and
// verifies connectivity before returning.
func NewMongoDB(cfg config.MongoDBConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Printf("MongoDB connection established with pool size [%d, %d]", cfg.MinPoolSize, cfg.MaxPoolSize)

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Collection returns a handle to the named collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// EnsureIndexes creates the indexes the stores rely on: the partial unique
// index on shortCode that serializes allocator inserts, the TTL index on
// expiresAt, and the owner listing index. Click events carry no unique
// constraint.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	links := m.Collection(models.Link{}.CollectionName())

	_, err := links.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "shortCode", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isDeleted": false}),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create link indexes: %w", err)
	}

	clicks := m.Collection(models.ClickEvent{}.CollectionName())
	_, err = clicks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shortCode", Value: 1}, {Key: "clickedAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create click event indexes: %w", err)
	}

	return nil
}

// Close disconnects the client within the configured disconnect timeout
func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.DisconnTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}

	log.Println("MongoDB connection closed")
	return nil
}
