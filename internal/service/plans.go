package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/mealplan"
	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/storage"
)

// CandidateQuery selects recipes from the configured source
type CandidateQuery struct {
	Query    string           `json:"query,omitempty"`
	Category string           `json:"category,omitempty"`
	Filter   recipes.Criteria `json:"filter"`
}

// AssembleRequest is the stateless assemble call. Candidates are fetched
// through CandidateQuery when none are supplied.
type AssembleRequest struct {
	mealplan.Spec
	CandidateQuery
	Candidates []models.Recipe `json:"candidates,omitempty"`
}

// GeneratePlanRequest creates and stores a plan for a user
type GeneratePlanRequest struct {
	CandidateQuery
	Name                string     `json:"name"`
	Description         string     `json:"description,omitempty"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	DurationDays        int        `json:"duration_days"`
	MealsPerDay         int        `json:"meals_per_day"`
	Servings            *int       `json:"servings,omitempty"`
	CuisinePreferences  []string   `json:"cuisine_preferences,omitempty"`
	DietaryRestrictions []string   `json:"dietary_restrictions,omitempty"`
}

// AddRecipeRequest schedules one more recipe in an existing plan
type AddRecipeRequest struct {
	RecipeID  string          `json:"recipe_id"`
	DayNumber int             `json:"day_number"`
	MealType  models.MealType `json:"meal_type"`
	Servings  *int            `json:"servings,omitempty"`
}

// Assemble builds a plan without storing it. When the candidates cannot make
// a plan the built-in recipe set is used instead.
func (p *Planner) Assemble(ctx context.Context, req AssembleRequest) (*models.AssembledMealPlan, error) {
	if err := req.Spec.Validate(); err != nil {
		return nil, err
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		candidates = p.candidates(ctx, req.CandidateQuery)
	}
	return p.assembleWithFallback(ctx, candidates, req.Spec)
}

// GenerateMealPlan assembles a plan from fetched recipes, scoped by the user's
// stored targets when they exist, and stores it
func (p *Planner) GenerateMealPlan(ctx context.Context, userID string, req GeneratePlanRequest) (*models.MealPlanDetail, error) {
	spec := mealplan.Spec{
		DurationDays:      req.DurationDays,
		MealsPerDay:       req.MealsPerDay,
		RequestedServings: req.Servings,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	profile, err := p.deps.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		spec.Targets = profile.Targets
		if profile.Targets == nil {
			if targets, err := p.ComputeGoals(*profile); err == nil {
				spec.Targets = &targets
			}
		}
	case errors.Is(err, storage.ErrNotFound):
		p.log.Debug("Planning without stored targets", zap.String("user_id", userID))
	default:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	assembled, err := p.assembleWithFallback(ctx, p.candidates(ctx, req.CandidateQuery), spec)
	if err != nil {
		return nil, err
	}

	start := p.now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != nil {
		start = req.StartDate.UTC().Truncate(24 * time.Hour)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fmt.Sprintf("%d-day meal plan", req.DurationDays)
	}

	plan := &models.MealPlan{
		UserID:              userID,
		Name:                name,
		Description:         req.Description,
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, req.DurationDays-1),
		TotalDays:           req.DurationDays,
		MealsPerDay:         req.MealsPerDay,
		Targets:             spec.Targets,
		CuisinePreferences:  req.CuisinePreferences,
		DietaryRestrictions: req.DietaryRestrictions,
		Status:              models.MealPlanActive,
		CreatedAt:           p.now(),
	}

	slots := assembled.Slots()
	meals := make([]models.Meal, len(slots))
	for i, slot := range slots {
		meals[i] = models.MealFromSlot(primitive.NilObjectID, slot)
	}

	if err := p.deps.MealPlans.Create(ctx, plan, meals); err != nil {
		return nil, fmt.Errorf("failed to store meal plan: %w", err)
	}

	p.log.Info("Generated meal plan",
		zap.String("user_id", userID),
		zap.String("plan_id", plan.ID.Hex()),
		zap.Int("days", plan.TotalDays),
		zap.Int("meals", len(meals)))
	return &models.MealPlanDetail{MealPlan: *plan, Meals: meals}, nil
}

// ListMealPlans returns the user's active plans
func (p *Planner) ListMealPlans(ctx context.Context, userID string) ([]models.MealPlan, error) {
	return p.deps.MealPlans.ListActive(ctx, userID)
}

// GetMealPlan returns one plan with its meals
func (p *Planner) GetMealPlan(ctx context.Context, userID string, planID primitive.ObjectID) (*models.MealPlanDetail, error) {
	return p.deps.MealPlans.Get(ctx, userID, planID)
}

// DeleteMealPlan removes a plan and its meals
func (p *Planner) DeleteMealPlan(ctx context.Context, userID string, planID primitive.ObjectID) error {
	return p.deps.MealPlans.Delete(ctx, userID, planID)
}

// AddRecipeToMealPlan scales a recipe to the requested servings and stores it
// as a meal of the plan
func (p *Planner) AddRecipeToMealPlan(ctx context.Context, userID string, planID primitive.ObjectID, req AddRecipeRequest) (*models.Meal, error) {
	if strings.TrimSpace(req.RecipeID) == "" {
		return nil, fmt.Errorf("%w: recipe_id is required", ErrInvalidInput)
	}
	if req.MealType == "" {
		req.MealType = models.MealTypeSnack
	}
	if !req.MealType.Valid() {
		return nil, fmt.Errorf("%w: unknown meal_type %q", ErrInvalidInput, req.MealType)
	}
	if req.Servings != nil && *req.Servings <= 0 {
		return nil, fmt.Errorf("%w: servings must be positive", ErrInvalidInput)
	}

	plan, err := p.deps.MealPlans.Get(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if req.DayNumber < 1 || req.DayNumber > plan.TotalDays {
		return nil, fmt.Errorf("%w: day_number must be between 1 and %d", ErrInvalidInput, plan.TotalDays)
	}

	recipe, err := p.findRecipe(ctx, req.RecipeID)
	if err != nil {
		return nil, err
	}

	servings := recipe.BaseServings
	if req.Servings != nil {
		servings = *req.Servings
	}
	slot := mealplan.ScaleRecipe(*recipe, servings)
	slot.DayNumber = req.DayNumber
	slot.MealType = req.MealType

	meal := models.MealFromSlot(planID, slot)
	if err := p.deps.MealPlans.AddMeal(ctx, userID, planID, &meal); err != nil {
		return nil, fmt.Errorf("failed to add meal: %w", err)
	}
	return &meal, nil
}

// candidates fetches and filters recipes. Source failures are logged and
// produce an empty pool so the caller falls back.
func (p *Planner) candidates(ctx context.Context, q CandidateQuery) []models.Recipe {
	if p.deps.Source == nil {
		return nil
	}

	list, err := p.deps.Source.FetchCandidates(ctx, q.Query, q.Category)
	if err != nil {
		p.log.Warn("Recipe source failed, using fallback recipes",
			zap.String("source", p.deps.Source.Name()),
			zap.Error(err))
		return nil
	}
	return recipes.Filter(list, q.Filter)
}

func (p *Planner) assembleWithFallback(ctx context.Context, candidates []models.Recipe, spec mealplan.Spec) (*models.AssembledMealPlan, error) {
	plan, err := mealplan.Assemble(candidates, spec, p.assembleOptions()...)
	if !errors.Is(err, mealplan.ErrInsufficientCandidates) {
		return plan, err
	}

	fallback, ferr := p.deps.Fallback.FetchCandidates(ctx, "", "")
	if ferr != nil {
		return nil, fmt.Errorf("failed to load fallback recipes: %w", ferr)
	}
	p.log.Info("Assembling from fallback recipes",
		zap.String("source", p.deps.Fallback.Name()),
		zap.Int("recipes", len(fallback)))
	return mealplan.Assemble(fallback, spec, p.assembleOptions()...)
}
