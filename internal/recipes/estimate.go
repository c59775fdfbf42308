package recipes

import (
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/bradykim7/nutriplan/internal/models"
)

const (
	difficultyEasy   = "easy"
	difficultyMedium = "medium"
	difficultyHard   = "hard"
)

// Difficulty grades a recipe by how many ingredients and steps it has
func Difficulty(ingredients, steps int) string {
	switch total := ingredients + steps; {
	case total > 15:
		return difficultyHard
	case total > 8:
		return difficultyMedium
	default:
		return difficultyEasy
	}
}

// estimator draws pseudo-random but stable figures for a recipe id
type estimator struct {
	r *rand.Rand
}

func newEstimator(id string) estimator {
	h := fnv.New64a()
	h.Write([]byte(id))
	seed := h.Sum64()
	return estimator{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// between returns floor(lo + U*span)
func (e estimator) between(lo, span float64) float64 {
	return math.Floor(lo + e.r.Float64()*span)
}

// EstimateNutrition fills in per-serving figures for sources that publish none.
// Calories fall in [200, 600) and the macros follow a 15/55/30 split; the same
// id always yields the same numbers.
func EstimateNutrition(id string) models.Nutrition {
	e := newEstimator(id)
	calories := e.between(200, 400)
	protein := math.Floor(calories * 0.15 / 4)
	carbs := math.Floor(calories * 0.55 / 4)
	fat := math.Floor(calories * 0.30 / 9)
	fiber := e.between(5, 10)

	return models.Nutrition{
		Calories:     &calories,
		ProteinGrams: &protein,
		CarbGrams:    &carbs,
		FatGrams:     &fat,
		FiberGrams:   &fiber,
	}
}

// estimateTimes returns prep minutes in [10, 30) and cook minutes in [15, 60)
func estimateTimes(id string) (prep, cook int) {
	e := newEstimator(id + "/time")
	return int(e.between(10, 20)), int(e.between(15, 45))
}
