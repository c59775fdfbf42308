// Package nutrition turns a biometric profile into daily calorie and macro targets.
package nutrition

import (
	"errors"
	"math"
	"strings"

	"github.com/bradykim7/nutriplan/internal/models"
)

// ErrMissingInput is matched by every *MissingInputError
var ErrMissingInput = errors.New("missing profile input")

// MissingInputError lists the profile fields that were absent or not positive
type MissingInputError struct {
	Fields []string
}

func (e *MissingInputError) Error() string {
	return "missing profile input: " + strings.Join(e.Fields, ", ")
}

// Is lets errors.Is(err, ErrMissingInput) match
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

const (
	kcalPerGramProtein = 4
	kcalPerGramCarb    = 4
	kcalPerGramFat     = 9

	proteinShare = 0.30
	carbShare    = 0.40
	fatShare     = 0.30

	deficitKcal = 500
	surplusKcal = 300

	fiberGramsPerKg = 0.5
	waterMlPerKg    = 35

	// used for levels that are present but not recognised
	fallbackActivityMultiplier = 1.2
)

var activityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// ActivityMultiplier returns the TDEE multiplier for a level
func ActivityMultiplier(level models.ActivityLevel) float64 {
	if m, ok := activityMultipliers[models.ParseActivityLevel(string(level))]; ok {
		return m
	}
	return fallbackActivityMultiplier
}

// Validate reports which fields of p are missing or unusable
func Validate(p models.Profile) error {
	var missing []string
	if p.Age == nil || *p.Age <= 0 {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(string(p.Sex)) == "" {
		missing = append(missing, "sex")
	}
	if !positive(p.HeightCm) {
		missing = append(missing, "height_cm")
	}
	if !positive(p.WeightKg) {
		missing = append(missing, "weight_kg")
	}
	if strings.TrimSpace(string(p.ActivityLevel)) == "" {
		missing = append(missing, "activity_level")
	}
	// optional, but must be usable when given
	if p.TargetWeightKg != nil && !positive(p.TargetWeightKg) {
		missing = append(missing, "target_weight_kg")
	}
	if len(missing) > 0 {
		return &MissingInputError{Fields: missing}
	}
	return nil
}

// BMR estimates basal metabolic rate with the Mifflin-St Jeor equation.
// Any sex other than male uses the female constant.
func BMR(p models.Profile) (float64, error) {
	if err := Validate(p); err != nil {
		return 0, err
	}
	return bmr(p), nil
}

// TDEE is BMR scaled by the activity multiplier
func TDEE(p models.Profile) (float64, error) {
	if err := Validate(p); err != nil {
		return 0, err
	}
	return bmr(p) * ActivityMultiplier(p.ActivityLevel), nil
}

// ComputeTargets derives daily calorie, macro, fiber and water targets.
// It is pure: identical profiles always produce identical targets.
func ComputeTargets(p models.Profile) (models.NutritionTargets, error) {
	if err := Validate(p); err != nil {
		return models.NutritionTargets{}, err
	}

	calories := bmr(p) * ActivityMultiplier(p.ActivityLevel)
	switch models.ParseGoal(string(p.Goal)) {
	case models.GoalLoseWeight:
		calories -= deficitKcal
	case models.GoalGainWeight, models.GoalBuildMuscle:
		calories += surplusKcal
	}

	weight := *p.WeightKg
	return models.NutritionTargets{
		DailyCalories:    nonNegative(calories),
		ProteinGrams:     nonNegative(calories * proteinShare / kcalPerGramProtein),
		CarbGrams:        nonNegative(calories * carbShare / kcalPerGramCarb),
		FatGrams:         nonNegative(calories * fatShare / kcalPerGramFat),
		FiberGrams:       nonNegative(weight * fiberGramsPerKg),
		WaterMilliliters: nonNegative(weight * waterMlPerKg),
	}, nil
}

func bmr(p models.Profile) float64 {
	base := 10*(*p.WeightKg) + 6.25*(*p.HeightCm) - 5*float64(*p.Age)
	if models.ParseSex(string(p.Sex)) == models.SexMale {
		return base + 5
	}
	return base - 161
}

func positive(v *float64) bool {
	return v != nil && Positive(*v)
}

// Positive reports whether v is a finite number above zero
func Positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nonNegative rounds half away from zero and clamps at zero
func nonNegative(v float64) int {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	return int(r)
}
