package mealplan

import (
	"math"

	"github.com/bradykim7/nutriplan/internal/models"
)

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ScaleFactor is requested/base servings. A non-positive base counts as one serving.
func ScaleFactor(baseServings, requested int) float64 {
	if baseServings <= 0 {
		baseServings = 1
	}
	if requested <= 0 {
		requested = baseServings
	}
	return float64(requested) / float64(baseServings)
}

// ScaleIngredients multiplies every known amount by factor, rounded to 2 places.
// Nil amounts stay nil; names and units pass through unchanged.
func ScaleIngredients(ingredients []models.Ingredient, factor float64) []models.Ingredient {
	out := make([]models.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		out[i] = models.Ingredient{Name: ing.Name, Unit: ing.Unit}
		if ing.Amount != nil {
			v := Round(*ing.Amount*factor, 2)
			out[i].Amount = &v
		}
	}
	return out
}

// ScaleNutrition scales calories to whole kcal and macros to one decimal gram
func ScaleNutrition(n models.Nutrition, factor float64) models.Nutrition {
	return models.Nutrition{
		Calories:     scaleField(n.Calories, factor, 0),
		ProteinGrams: scaleField(n.ProteinGrams, factor, 1),
		CarbGrams:    scaleField(n.CarbGrams, factor, 1),
		FatGrams:     scaleField(n.FatGrams, factor, 1),
		FiberGrams:   scaleField(n.FiberGrams, factor, 1),
	}
}

func scaleField(v *float64, factor float64, places int) *float64 {
	if v == nil {
		return nil
	}
	s := Round(*v*factor, places)
	return &s
}

// ScaleRecipe produces an unscheduled slot for recipe at the given serving count.
// Day number and meal type are left for the caller to fill in.
func ScaleRecipe(recipe models.Recipe, servings int) models.MealSlot {
	factor := ScaleFactor(recipe.BaseServings, servings)
	if servings <= 0 {
		servings = recipe.BaseServings
	}
	if servings <= 0 {
		servings = 1
	}
	return models.MealSlot{
		RecipeID:     recipe.ID,
		Title:        recipe.Title,
		Servings:     servings,
		Ingredients:  ScaleIngredients(recipe.Ingredients, factor),
		Nutrition:    ScaleNutrition(recipe.Nutrition, factor),
		Instructions: append([]string(nil), recipe.Instructions...),
	}
}

// SumNutrition totals the slots of a day. A field stays nil when no slot reports it.
func SumNutrition(slots []models.MealSlot) models.Nutrition {
	var total models.Nutrition
	for _, s := range slots {
		total.Calories = add(total.Calories, s.Nutrition.Calories, 0)
		total.ProteinGrams = add(total.ProteinGrams, s.Nutrition.ProteinGrams, 1)
		total.CarbGrams = add(total.CarbGrams, s.Nutrition.CarbGrams, 1)
		total.FatGrams = add(total.FatGrams, s.Nutrition.FatGrams, 1)
		total.FiberGrams = add(total.FiberGrams, s.Nutrition.FiberGrams, 1)
	}
	return total
}

func add(sum, v *float64, places int) *float64 {
	if v == nil {
		return sum
	}
	var base float64
	if sum != nil {
		base = *sum
	}
	r := Round(base+*v, places)
	return &r
}
