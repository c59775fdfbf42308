package storage

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

const maxStoredCandidates = 50

// RecipeRepository keeps every recipe the service has fetched or imported.
// It doubles as a recipe source when the upstream API is unreachable.
type RecipeRepository struct {
	db  *MongoDB
	log *zap.Logger
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *MongoDB, log *zap.Logger) *RecipeRepository {
	return &RecipeRepository{
		db:  db,
		log: log.Named("recipe-repository"),
	}
}

// Name returns the name of the source
func (r *RecipeRepository) Name() string {
	return "mongodb"
}

// UpsertRecipes writes recipes keyed by their id
func (r *RecipeRepository) UpsertRecipes(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	writes := make([]mongo.WriteModel, len(recipes))
	for i, recipe := range recipes {
		writes[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": recipe.ID}).
			SetReplacement(recipe).
			SetUpsert(true)
	}

	res, err := r.db.Collection(CollectionRecipes).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert recipes: %w", err)
	}

	r.log.Debug("Upserted recipes",
		zap.Int64("inserted", res.UpsertedCount),
		zap.Int64("modified", res.ModifiedCount))
	return nil
}

// Get returns a stored recipe
func (r *RecipeRepository) Get(ctx context.Context, id string) (*models.Recipe, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var recipe models.Recipe
	if err := r.db.Collection(CollectionRecipes).FindOne(ctx, bson.M{"_id": id}).Decode(&recipe); err != nil {
		return nil, notFound(err, "recipe "+id)
	}
	return &recipe, nil
}

// FetchCandidates matches title substrings and exact categories, ignoring case
func (r *RecipeRepository) FetchCandidates(ctx context.Context, query, category string) ([]models.Recipe, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if q := strings.TrimSpace(query); q != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	}
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "all") {
		filter["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c) + "$", Options: "i"}
	}

	cursor, err := r.db.Collection(CollectionRecipes).Find(ctx, filter, options.Find().SetLimit(maxStoredCandidates))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}

// Random picks one stored recipe, optionally within a category
func (r *RecipeRepository) Random(ctx context.Context, category string) (*models.Recipe, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	collection := r.db.Collection(CollectionRecipes)

	filter := bson.M{}
	if c := strings.TrimSpace(category); c != "" {
		filter["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(c) + "$", Options: "i"}
	}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no stored recipes: %w", ErrNotFound)
	}

	opts := options.Find().SetSkip(rand.Int64N(count)).SetLimit(1)
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	defer cursor.Close(ctx)

	var recipe models.Recipe
	if cursor.Next(ctx) {
		if err := cursor.Decode(&recipe); err != nil {
			return nil, fmt.Errorf("failed to decode recipe: %w", err)
		}
		return &recipe, nil
	}
	return nil, fmt.Errorf("no recipe at random index: %w", ErrNotFound)
}
