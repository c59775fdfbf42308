// Package app wires configuration, storage and recipe sources into a planner.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/service"
	"github.com/bradykim7/nutriplan/internal/storage"
	"github.com/bradykim7/nutriplan/pkg/config"
)

// App holds the long-lived components shared by the binaries
type App struct {
	Config  *config.Config
	DB      *storage.MongoDB
	MealDB  *recipes.MealDBClient
	Pool    *recipes.Pool
	Recipes *storage.RecipeRepository
	Planner *service.Planner

	log *zap.Logger
}

// Open connects to MongoDB, makes sure the indexes exist and wires the planner
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := storage.NewMongoDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Disconnect()
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return Wire(cfg, db, http.DefaultClient, log), nil
}

// Wire builds the recipe sources and the planner over an open database
func Wire(cfg *config.Config, db *storage.MongoDB, httpClient *http.Client, log *zap.Logger) *App {
	recipeRepo := storage.NewRecipeRepository(db, log)
	mealDB := recipes.NewMealDBClient(cfg.MealDBBaseURL, httpClient, log)
	pool := recipes.NewPool(mealDB, recipes.PoolOptions{
		RandomCount: cfg.RecipePoolSize,
		Store:       recipeRepo,
	}, log)

	planner := service.NewPlanner(service.Deps{
		Profiles:  storage.NewProfileRepository(db, log),
		MealPlans: storage.NewMealPlanRepository(db, log),
		Groceries: storage.NewGroceryRepository(db, log),
		Progress:  storage.NewProgressRepository(db, log),
		Source:    pool,
		Fallback:  recipes.Fallback(),
		Finder: recipes.Finders{
			pool,
			storedRecipes(recipeRepo),
			mealDB,
		},
		Categories: mealDB,
		Importer:   recipes.NewPageImporter(httpClient, log),
		Recipes:    recipeRepo,
	}, log)

	return &App{
		Config:  cfg,
		DB:      db,
		MealDB:  mealDB,
		Pool:    pool,
		Recipes: recipeRepo,
		Planner: planner,
		log:     log.Named("app"),
	}
}

// storedRecipes reports a missing document as a recipe miss
func storedRecipes(repo *storage.RecipeRepository) recipes.Finder {
	return recipes.FinderFunc(func(ctx context.Context, id string) (*models.Recipe, error) {
		r, err := repo.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", recipes.ErrRecipeNotFound, err)
		}
		return r, err
	})
}

// StartBackground refreshes the recipe pool until ctx ends
func (a *App) StartBackground(ctx context.Context) {
	go a.Pool.StartScheduledRefresh(ctx, a.Config.RecipeRefreshInterval)
}

// Close disconnects from MongoDB
func (a *App) Close() error {
	if err := a.DB.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	a.log.Info("Closed")
	return nil
}
