// Package service orchestrates the calculator, the assembler, the recipe
// sources and the repositories behind the HTTP API and the bot.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/mealplan"
	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
)

// ErrInvalidInput marks requests that are well-formed JSON but semantically wrong
var ErrInvalidInput = errors.New("invalid input")

// ProfileStore persists onboarding profiles
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile) error
	UpdateTargets(ctx context.Context, userID string, targets models.NutritionTargets) error
}

// MealPlanStore persists plans and meals
type MealPlanStore interface {
	Create(ctx context.Context, plan *models.MealPlan, meals []models.Meal) error
	ListActive(ctx context.Context, userID string) ([]models.MealPlan, error)
	Get(ctx context.Context, userID string, planID primitive.ObjectID) (*models.MealPlanDetail, error)
	Delete(ctx context.Context, userID string, planID primitive.ObjectID) error
	AddMeal(ctx context.Context, userID string, planID primitive.ObjectID, meal *models.Meal) error
}

// GroceryStore persists shopping lists
type GroceryStore interface {
	Create(ctx context.Context, list *models.GroceryList, items []models.GroceryItem) error
	Get(ctx context.Context, userID string, listID primitive.ObjectID) (*models.GroceryListDetail, error)
	AddItem(ctx context.Context, userID string, listID primitive.ObjectID, item *models.GroceryItem) error
	SetPurchased(ctx context.Context, userID string, listID, itemID primitive.ObjectID, purchased bool) error
	DeleteItem(ctx context.Context, userID string, listID, itemID primitive.ObjectID) error
}

// ProgressStore persists progress logs
type ProgressStore interface {
	Add(ctx context.Context, entry *models.ProgressEntry) error
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ProgressEntry, error)
}

// CategoryLister lists recipe categories
type CategoryLister interface {
	Categories(ctx context.Context) ([]string, error)
}

// Importer scrapes a recipe from a web page
type Importer interface {
	Import(ctx context.Context, pageURL string) (*models.Recipe, error)
}

// Deps wires a Planner. Only Source and Fallback are required for the
// stateless operations; the stores are needed for everything user scoped.
type Deps struct {
	Profiles   ProfileStore
	MealPlans  MealPlanStore
	Groceries  GroceryStore
	Progress   ProgressStore
	Source     recipes.Source
	Fallback   recipes.Source
	Finder     recipes.Finder
	Categories CategoryLister
	Importer   Importer
	Recipes    recipes.RecipeStore
	// Shuffler orders each day's rotation. Nil draws from the global source.
	Shuffler mealplan.Shuffler
}

// Planner is the application service
type Planner struct {
	deps     Deps
	log      *zap.Logger
	now      func() time.Time
	shuffler mealplan.Shuffler
}

// NewPlanner creates a planner. A nil Fallback uses the built-in recipe set.
func NewPlanner(deps Deps, log *zap.Logger) *Planner {
	if deps.Fallback == nil {
		deps.Fallback = recipes.Fallback()
	}
	p := &Planner{
		deps: deps,
		log:  log.Named("planner"),
		now:  time.Now,
	}
	if deps.Shuffler != nil {
		p.shuffler = &lockedShuffler{s: deps.Shuffler}
	}
	return p
}

// lockedShuffler serializes a shuffler shared by concurrent requests
type lockedShuffler struct {
	mu sync.Mutex
	s  mealplan.Shuffler
}

func (l *lockedShuffler) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.Shuffle(n, swap)
}

func (p *Planner) assembleOptions() []mealplan.Option {
	if p.shuffler == nil {
		return nil
	}
	return []mealplan.Option{mealplan.WithShuffler(p.shuffler)}
}
