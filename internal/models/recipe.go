package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Ingredient is one line of a recipe. Amount is nil for measures such as "to taste".
type Ingredient struct {
	Name   string   `bson:"name" json:"name" yaml:"name"`
	Amount *float64 `bson:"amount,omitempty" json:"amount,omitempty" yaml:"amount,omitempty"`
	Unit   string   `bson:"unit,omitempty" json:"unit,omitempty" yaml:"unit,omitempty"`
}

// String renders the ingredient the way it is shown on a shopping list
func (i Ingredient) String() string {
	var parts []string
	if i.Amount != nil {
		parts = append(parts, strconv.FormatFloat(*i.Amount, 'f', -1, 64))
	}
	if i.Unit != "" {
		parts = append(parts, i.Unit)
	}
	parts = append(parts, i.Name)
	return strings.Join(parts, " ")
}

// Nutrition holds per-serving (or per-slot, once scaled) nutrition values.
// Every field is optional because most recipe sources only publish some of them.
type Nutrition struct {
	Calories     *float64 `bson:"calories,omitempty" json:"calories,omitempty" yaml:"calories,omitempty"`
	ProteinGrams *float64 `bson:"protein,omitempty" json:"protein_grams,omitempty" yaml:"protein,omitempty"`
	CarbGrams    *float64 `bson:"carbs,omitempty" json:"carb_grams,omitempty" yaml:"carbs,omitempty"`
	FatGrams     *float64 `bson:"fat,omitempty" json:"fat_grams,omitempty" yaml:"fat,omitempty"`
	FiberGrams   *float64 `bson:"fiber,omitempty" json:"fiber_grams,omitempty" yaml:"fiber,omitempty"`
}

// Recipe is a normalized recipe candidate, regardless of where it was fetched from
type Recipe struct {
	ID           string       `bson:"_id" json:"id" yaml:"id"`
	Title        string       `bson:"title" json:"title" yaml:"title"`
	Description  string       `bson:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	BaseServings int          `bson:"servings" json:"base_servings" yaml:"servings"`
	Ingredients  []Ingredient `bson:"ingredients" json:"ingredients" yaml:"ingredients"`
	Instructions []string     `bson:"instructions" json:"instructions" yaml:"instructions"`
	Nutrition    Nutrition    `bson:"nutrition" json:"nutrition" yaml:"nutrition"`

	Category    string    `bson:"category,omitempty" json:"category,omitempty" yaml:"category,omitempty"`
	Cuisine     string    `bson:"cuisine,omitempty" json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Difficulty  string    `bson:"difficulty,omitempty" json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	DietaryTags []string  `bson:"dietary_tags,omitempty" json:"dietary_tags,omitempty" yaml:"dietary_tags,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"image_url,omitempty" yaml:"image_url,omitempty"`
	SourceURL   string    `bson:"source_url,omitempty" json:"source_url,omitempty" yaml:"source_url,omitempty"`
	PrepMinutes int       `bson:"prep_time,omitempty" json:"prep_minutes,omitempty" yaml:"prep_minutes,omitempty"`
	CookMinutes int       `bson:"cook_time,omitempty" json:"cook_minutes,omitempty" yaml:"cook_minutes,omitempty"`
	FetchedAt   time.Time `bson:"fetched_at,omitempty" json:"-" yaml:"-"`
}

// String returns a short human readable description
func (r *Recipe) String() string {
	if r.Nutrition.Calories != nil {
		return fmt.Sprintf("%s (%.0f kcal/serving)", r.Title, *r.Nutrition.Calories)
	}
	return r.Title
}
