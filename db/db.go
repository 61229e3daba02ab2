package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a MongoDB client and pings the primary before returning it.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Printf("Connected to MongoDB at %s", uri)
	return client, nil
}

// OptionsFindLatest sorts a find by createdAt, newest first.
func OptionsFindLatest() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// EnsureIndexes creates the indexes the careers collections are queried by.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	newestFirst := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	for _, name := range []string{"jobs", "applications"} {
		if _, err := database.Collection(name).Indexes().CreateOne(ctx, newestFirst); err != nil {
			return fmt.Errorf("index %s.createdAt: %w", name, err)
		}
	}

	uniqueEmail := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := database.Collection("admins").Indexes().CreateOne(ctx, uniqueEmail); err != nil {
		return fmt.Errorf("index admins.email: %w", err)
	}
	return nil
}
