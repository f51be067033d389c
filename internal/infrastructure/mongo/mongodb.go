package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// MongoConfig holds configuration for MongoDB connection
type MongoConfig struct {
	URI      string
	Database string
	Username string
	Password string
	Timeout  time.Duration
}

func (c *MongoConfig) validate() error {
	if c.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}
	if c.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}

// MongoClient owns the connection shared by every repository built on top of
// it. Repositories borrow the client and never disconnect it.
type MongoClient struct {
	client *mongo.Client
	config *MongoConfig
}

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
func NewMongoClient(config *MongoConfig) (*MongoClient, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetServerSelectionTimeout(config.Timeout)

	if config.Username != "" && config.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: config.Username,
			Password: config.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoClient{
		client: client,
		config: config,
	}, nil
}

// GetClient returns the underlying MongoDB client
func (mc *MongoClient) GetClient() *mongo.Client {
	return mc.client
}

// DatabaseName returns the configured database
func (mc *MongoClient) DatabaseName() string {
	return mc.config.Database
}

// Close closes the MongoDB connection
func (mc *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mc.config.Timeout)
	defer cancel()

	return mc.client.Disconnect(ctx)
}

// Ping tests the MongoDB connection
func (mc *MongoClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, mc.config.Timeout)
	defer cancel()

	return mc.client.Ping(ctx, nil)
}
