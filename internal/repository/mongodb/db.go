package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpulse/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect opens a MongoDB connection and verifies it with a ping.
func Connect(cfg *config.DatabaseConfig) (*mongo.Database, func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(cfg.DBName), client.Disconnect, nil
}
