package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notesCollection := db.Collection("notes")
	usersCollection := db.Collection("users")
	sessionsCollection := db.Collection("sessions")

	noteIndexes := []mongo.IndexModel{
		// Active list: owner scoped, pinned first, recency
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "is_pinned", Value: -1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().
				SetName("owner_active_notes"),
		},
		// Trash list ordering
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "deleted_at", Value: -1},
			},
			Options: options.Index().
				SetName("owner_trashed_notes"),
		},
		// Share token lookup. Unique across all notes; sparse so the
		// many private notes without a token don't collide on null.
		{
			Keys: bson.D{{Key: "public_id", Value: 1}},
			Options: options.Index().
				SetName("public_id_unique").
				SetUnique(true).
				SetSparse(true),
		},
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("username_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index"),
		},
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_sessions_date"),
		},
	}

	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	if _, err := sessionsCollection.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return fmt.Errorf("failed to create sessions indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
