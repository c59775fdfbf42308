package models

import (
	"strings"
	"time"
)

// Sex selects the Mifflin-St Jeor constant
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel describes how active the user is during a typical week
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal is the user's primary body-composition objective
type Goal string

const (
	GoalLoseWeight  Goal = "lose_weight"
	GoalMaintain    Goal = "maintain"
	GoalGainWeight  Goal = "gain_weight"
	GoalBuildMuscle Goal = "build_muscle"
)

// legacy spellings accepted from older clients
var (
	activityAliases = map[string]ActivityLevel{
		"very-active": ActivityVeryActive,
		"very active": ActivityVeryActive,
	}
	goalAliases = map[string]Goal{
		"weight-loss": GoalLoseWeight,
		"muscle-gain": GoalBuildMuscle,
		"maintenance": GoalMaintain,
		"weight-gain": GoalGainWeight,
	}
)

// ParseSex normalizes a sex value. Unknown values are kept as given.
func ParseSex(s string) Sex {
	return Sex(strings.ToLower(strings.TrimSpace(s)))
}

// ParseActivityLevel normalizes an activity level, accepting legacy spellings
func ParseActivityLevel(s string) ActivityLevel {
	v := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := activityAliases[v]; ok {
		return alias
	}
	return ActivityLevel(v)
}

// ParseGoal normalizes a goal, accepting legacy spellings
func ParseGoal(s string) Goal {
	v := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := goalAliases[v]; ok {
		return alias
	}
	return Goal(v)
}

// Profile is the biometric profile a user fills in during onboarding.
// Numeric fields are pointers so that "not provided" is distinguishable from zero.
type Profile struct {
	UserID              string            `bson:"user_id" json:"user_id,omitempty"`
	FullName            string            `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Age                 *int              `bson:"age,omitempty" json:"age,omitempty"`
	Sex                 Sex               `bson:"gender,omitempty" json:"sex,omitempty"`
	HeightCm            *float64          `bson:"height,omitempty" json:"height_cm,omitempty"`
	WeightKg            *float64          `bson:"weight,omitempty" json:"weight_kg,omitempty"`
	ActivityLevel       ActivityLevel     `bson:"activity_level,omitempty" json:"activity_level,omitempty"`
	Goal                Goal              `bson:"goal_type,omitempty" json:"goal,omitempty"`
	TargetWeightKg      *float64          `bson:"target_weight,omitempty" json:"target_weight_kg,omitempty"`
	DietaryRestrictions []string          `bson:"dietary_restrictions,omitempty" json:"dietary_restrictions,omitempty"`
	HealthConditions    []string          `bson:"health_conditions,omitempty" json:"health_conditions,omitempty"`
	Targets             *NutritionTargets `bson:"targets,omitempty" json:"targets,omitempty"`
	OnboardingCompleted bool              `bson:"onboarding_completed" json:"onboarding_completed"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updated_at"`
}

// Normalize rewrites the enum fields into their canonical spelling
func (p *Profile) Normalize() {
	p.Sex = ParseSex(string(p.Sex))
	p.ActivityLevel = ParseActivityLevel(string(p.ActivityLevel))
	p.Goal = ParseGoal(string(p.Goal))
}

// NutritionTargets holds daily intake goals derived from a profile
type NutritionTargets struct {
	DailyCalories    int `bson:"daily_calorie_goal" json:"daily_calories"`
	ProteinGrams     int `bson:"protein_goal" json:"protein_grams"`
	CarbGrams        int `bson:"carb_goal" json:"carb_grams"`
	FatGrams         int `bson:"fat_goal" json:"fat_grams"`
	FiberGrams       int `bson:"fiber_goal" json:"fiber_grams"`
	WaterMilliliters int `bson:"water_goal" json:"water_milliliters"`
}
