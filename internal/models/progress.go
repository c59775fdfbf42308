package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressEntry is a single day's self-reported log
type ProgressEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Date         time.Time          `bson:"date" json:"date"`
	WeightKg     *float64           `bson:"weight,omitempty" json:"weight_kg,omitempty"`
	Calories     *int               `bson:"calories,omitempty" json:"calories,omitempty"`
	ProteinGrams *float64           `bson:"protein,omitempty" json:"protein_grams,omitempty"`
	CarbGrams    *float64           `bson:"carbs,omitempty" json:"carb_grams,omitempty"`
	FatGrams     *float64           `bson:"fat,omitempty" json:"fat_grams,omitempty"`
	FiberGrams   *float64           `bson:"fiber,omitempty" json:"fiber_grams,omitempty"`
	WaterMl      *float64           `bson:"water_intake,omitempty" json:"water_ml,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ProgressSummary is the dashboard view over recent entries
type ProgressSummary struct {
	LatestWeightKg    *float64 `json:"latest_weight_kg,omitempty"`
	WeightTrendKg     float64  `json:"weight_trend_kg"`
	LatestCalories    *int     `json:"latest_calories,omitempty"`
	CalorieTrend      int      `json:"calorie_trend"`
	AverageWeightKg   float64  `json:"average_weight_kg"`
	AverageCalories   int      `json:"average_calories"`
	TargetWeightKg    *float64 `json:"target_weight_kg,omitempty"`
	DailyCalorieGoal  *int     `json:"daily_calorie_goal,omitempty"`
	EntriesConsidered int      `json:"entries_considered"`
}
