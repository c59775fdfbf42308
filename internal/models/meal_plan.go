package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType labels a slot within a day
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Valid reports whether t is one of the known meal types
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// MealSlot is one scheduled meal in an assembled plan
type MealSlot struct {
	DayNumber    int          `json:"day_number"`
	MealType     MealType     `json:"meal_type"`
	RecipeID     string       `json:"recipe_id"`
	Title        string       `json:"title"`
	Servings     int          `json:"servings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Nutrition    Nutrition    `json:"nutrition"`
	Instructions []string     `json:"instructions"`
}

// PlanDay groups the slots of one day together with their summed nutrition
type PlanDay struct {
	DayNumber int        `json:"day_number"`
	Meals     []MealSlot `json:"meals"`
	Totals    Nutrition  `json:"totals"`
}

// AssembledMealPlan is the output of the meal plan assembler
type AssembledMealPlan struct {
	Days    []PlanDay         `json:"days"`
	Targets *NutritionTargets `json:"targets,omitempty"`
}

// Slots returns every slot of the plan ordered by day then slot index
func (p *AssembledMealPlan) Slots() []MealSlot {
	var slots []MealSlot
	for _, day := range p.Days {
		slots = append(slots, day.Meals...)
	}
	return slots
}

// MealPlanStatus is the lifecycle state of a stored plan
type MealPlanStatus string

const (
	MealPlanActive   MealPlanStatus = "active"
	MealPlanArchived MealPlanStatus = "archived"
)

// MealPlan is the stored header of a generated plan
type MealPlan struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              string             `bson:"user_id" json:"user_id"`
	Name                string             `bson:"name" json:"name"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate           time.Time          `bson:"start_date" json:"start_date"`
	EndDate             time.Time          `bson:"end_date" json:"end_date"`
	TotalDays           int                `bson:"total_days" json:"total_days"`
	MealsPerDay         int                `bson:"meals_per_day" json:"meals_per_day"`
	Targets             *NutritionTargets  `bson:"targets,omitempty" json:"targets,omitempty"`
	CuisinePreferences  []string           `bson:"cuisine_preferences,omitempty" json:"cuisine_preferences,omitempty"`
	DietaryRestrictions []string           `bson:"dietary_restrictions,omitempty" json:"dietary_restrictions,omitempty"`
	Status              MealPlanStatus     `bson:"status" json:"status"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
}

// Meal is a stored meal row belonging to a plan
type Meal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MealPlanID   primitive.ObjectID `bson:"meal_plan_id" json:"meal_plan_id"`
	DayNumber    int                `bson:"day_number" json:"day_number"`
	MealType     MealType           `bson:"meal_type" json:"meal_type"`
	RecipeID     string             `bson:"recipe_id,omitempty" json:"recipe_id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Servings     int                `bson:"servings" json:"servings"`
	Ingredients  []Ingredient       `bson:"ingredients" json:"ingredients"`
	Instructions []string           `bson:"instructions" json:"instructions"`
	Nutrition    Nutrition          `bson:"nutrition" json:"nutrition"`
}

// MealFromSlot converts an assembled slot into a storable meal row
func MealFromSlot(planID primitive.ObjectID, slot MealSlot) Meal {
	return Meal{
		MealPlanID:   planID,
		DayNumber:    slot.DayNumber,
		MealType:     slot.MealType,
		RecipeID:     slot.RecipeID,
		Name:         slot.Title,
		Servings:     slot.Servings,
		Ingredients:  slot.Ingredients,
		Instructions: slot.Instructions,
		Nutrition:    slot.Nutrition,
	}
}

// MealPlanDetail is a stored plan together with its meals
type MealPlanDetail struct {
	MealPlan
	Meals []Meal `json:"meals"`
}
