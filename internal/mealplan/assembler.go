// Package mealplan lays a pool of recipe candidates out as a day-by-day schedule.
package mealplan

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/bradykim7/nutriplan/internal/models"
)

var (
	// ErrInsufficientCandidates is returned when the pool is empty after deduplication
	ErrInsufficientCandidates = errors.New("no recipe candidates to build a plan from")

	// ErrInvalidSpec is returned for non-positive durations, meal counts or servings
	ErrInvalidSpec = errors.New("invalid meal plan spec")
)

// Spec holds the caller's plan parameters
type Spec struct {
	DurationDays      int                      `json:"duration_days"`
	MealsPerDay       int                      `json:"meals_per_day"`
	RequestedServings *int                     `json:"requested_servings,omitempty"`
	Targets           *models.NutritionTargets `json:"targets,omitempty"`
}

// Validate rejects specs that cannot produce a plan
func (s Spec) Validate() error {
	if s.DurationDays <= 0 {
		return fmt.Errorf("%w: duration_days must be positive, got %d", ErrInvalidSpec, s.DurationDays)
	}
	if s.MealsPerDay <= 0 {
		return fmt.Errorf("%w: meals_per_day must be positive, got %d", ErrInvalidSpec, s.MealsPerDay)
	}
	if s.RequestedServings != nil && *s.RequestedServings <= 0 {
		return fmt.Errorf("%w: requested_servings must be positive, got %d", ErrInvalidSpec, *s.RequestedServings)
	}
	return nil
}

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Option customizes a single Assemble call
type Option func(*options)

type options struct {
	shuffler Shuffler
}

// WithShuffler makes the rotation order reproducible
func WithShuffler(s Shuffler) Option {
	return func(o *options) {
		o.shuffler = s
	}
}

var mealTypes = [...]models.MealType{
	models.MealTypeBreakfast,
	models.MealTypeLunch,
	models.MealTypeDinner,
}

// MealTypeForSlot maps a slot index to its meal type: 0 breakfast, 1 lunch,
// 2 dinner, everything after that a snack.
func MealTypeForSlot(i int) models.MealType {
	if i >= 0 && i < len(mealTypes) {
		return mealTypes[i]
	}
	return models.MealTypeSnack
}

// Assemble builds a plan of spec.DurationDays days with spec.MealsPerDay slots each.
// The candidates are deduplicated by ID, shuffled, and the first
// min(MealsPerDay, pool) of them form a rotation that repeats every day.
func Assemble(candidates []models.Recipe, spec Spec, opts ...Option) (*models.AssembledMealPlan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	o := options{shuffler: globalShuffler{}}
	for _, opt := range opts {
		opt(&o)
	}

	pool := Dedupe(candidates)
	if len(pool) == 0 {
		return nil, ErrInsufficientCandidates
	}

	o.shuffler.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	rotation := pool[:min(spec.MealsPerDay, len(pool))]

	// each rotation entry scales the same way every day
	scaled := make([]models.MealSlot, len(rotation))
	for i, recipe := range rotation {
		servings := recipe.BaseServings
		if spec.RequestedServings != nil {
			servings = *spec.RequestedServings
		}
		scaled[i] = ScaleRecipe(recipe, servings)
	}

	plan := &models.AssembledMealPlan{
		Days:    make([]models.PlanDay, spec.DurationDays),
		Targets: spec.Targets,
	}

	for d := range plan.Days {
		day := models.PlanDay{
			DayNumber: d + 1,
			Meals:     make([]models.MealSlot, spec.MealsPerDay),
		}
		for i := range day.Meals {
			slot := cloneSlot(scaled[i%len(scaled)])
			slot.DayNumber = day.DayNumber
			slot.MealType = MealTypeForSlot(i)
			day.Meals[i] = slot
		}
		day.Totals = SumNutrition(day.Meals)
		plan.Days[d] = day
	}

	return plan, nil
}

// Dedupe drops candidates whose ID was already seen, keeping first-seen order
func Dedupe(candidates []models.Recipe) []models.Recipe {
	seen := make(map[string]bool, len(candidates))
	pool := make([]models.Recipe, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		pool = append(pool, c)
	}
	return pool
}

// cloneSlot copies the slices of a slot so days never share backing arrays
func cloneSlot(s models.MealSlot) models.MealSlot {
	out := s
	out.Ingredients = make([]models.Ingredient, len(s.Ingredients))
	for i, ing := range s.Ingredients {
		out.Ingredients[i] = ing
		out.Ingredients[i].Amount = copyFloat(ing.Amount)
	}
	out.Instructions = append([]string(nil), s.Instructions...)
	out.Nutrition = models.Nutrition{
		Calories:     copyFloat(s.Nutrition.Calories),
		ProteinGrams: copyFloat(s.Nutrition.ProteinGrams),
		CarbGrams:    copyFloat(s.Nutrition.CarbGrams),
		FatGrams:     copyFloat(s.Nutrition.FatGrams),
		FiberGrams:   copyFloat(s.Nutrition.FiberGrams),
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
