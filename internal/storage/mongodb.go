// Package storage persists profiles, plans, grocery lists, progress and
// recipes in MongoDB.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/pkg/config"
)

// Collection names
const (
	CollectionProfiles     = "user_profiles"
	CollectionMealPlans    = "meal_plans"
	CollectionMeals        = "meals"
	CollectionGroceryLists = "grocery_lists"
	CollectionGroceryItems = "grocery_list_items"
	CollectionProgress     = "progress_tracking"
	CollectionRecipes      = "recipes"
)

const (
	connectTimeout   = 10 * time.Second
	operationTimeout = 10 * time.Second
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for identifiers that are not valid ObjectIDs
	ErrInvalidID = errors.New("invalid id")
)

// MongoDB represents a MongoDB connection
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// NewMongoDB connects to cfg.MongoDBURI and selects cfg.MongoDBDatabase
func NewMongoDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*MongoDB, error) {
	logger := log.Named("mongodb")

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDBDatabase))

	return &MongoDB{
		client: client,
		db:     client.Database(cfg.MongoDBDatabase),
		log:    logger,
	}, nil
}

// NewMongoDBFromDatabase wraps an already connected database
func NewMongoDBFromDatabase(db *mongo.Database, log *zap.Logger) *MongoDB {
	return &MongoDB{
		client: db.Client(),
		db:     db,
		log:    log.Named("mongodb"),
	}
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	m.log.Info("Closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

// Ping checks that the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

// Collection returns a MongoDB collection
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Database returns the current database
func (m *MongoDB) Database() *mongo.Database {
	return m.db
}

// EnsureIndexes creates the indexes the repositories query by. Failures are
// logged per collection and the first one is returned.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionProfiles: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionMealPlans: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionMeals: {
			{Keys: bson.D{{Key: "meal_plan_id", Value: 1}, {Key: "day_number", Value: 1}}},
		},
		CollectionGroceryLists: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionGroceryItems: {
			{Keys: bson.D{{Key: "grocery_list_id", Value: 1}}},
		},
		CollectionProgress: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		},
		CollectionRecipes: {
			{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "category", Value: "text"}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var firstErr error
	for name, idx := range indexes {
		if _, err := m.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			m.log.Warn("Failed to create indexes", zap.String("collection", name), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to create indexes on %s: %w", name, err)
			}
		}
	}
	return firstErr
}

// ParseID converts a hex string into an ObjectID
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, operationTimeout)
}

// notFound maps the driver's no-documents error onto ErrNotFound
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
