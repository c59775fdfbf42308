package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

// ProgressRepository stores daily progress logs
type ProgressRepository struct {
	db  *MongoDB
	log *zap.Logger
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *MongoDB, log *zap.Logger) *ProgressRepository {
	return &ProgressRepository{
		db:  db,
		log: log.Named("progress-repository"),
	}
}

// Add inserts one entry
func (r *ProgressRepository) Add(ctx context.Context, entry *models.ProgressEntry) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionProgress).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert progress entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries of userID, newest first.
// A non-positive limit returns every entry.
func (r *ProgressRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.db.Collection(CollectionProgress).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.ProgressEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return entries, nil
}
