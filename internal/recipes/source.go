// Package recipes fetches and normalizes recipe candidates for the planner.
package recipes

import (
	"context"
	"errors"
	"strings"

	"github.com/bradykim7/nutriplan/internal/models"
)

// ErrRecipeNotFound is returned when a lookup matches nothing
var ErrRecipeNotFound = errors.New("recipe not found")

// Source provides normalized recipe candidates
type Source interface {
	// FetchCandidates returns recipes matching an optional query and category.
	// Empty strings mean "no constraint".
	FetchCandidates(ctx context.Context, query, category string) ([]models.Recipe, error)

	// Name identifies the source in logs
	Name() string
}

// Criteria narrows a candidate list after it was fetched
type Criteria struct {
	Difficulty  string   `json:"difficulty,omitempty"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
}

// Filter keeps recipes whose difficulty equals c.Difficulty and that carry at
// least one of c.DietaryTags. Both comparisons ignore case; empty criteria
// keep everything.
func Filter(list []models.Recipe, c Criteria) []models.Recipe {
	difficulty := strings.TrimSpace(c.Difficulty)
	wanted := make(map[string]bool, len(c.DietaryTags))
	for _, tag := range c.DietaryTags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			wanted[tag] = true
		}
	}

	out := make([]models.Recipe, 0, len(list))
	for _, r := range list {
		if difficulty != "" && !strings.EqualFold(r.Difficulty, difficulty) {
			continue
		}
		if len(wanted) > 0 && !hasAnyTag(r.DietaryTags, wanted) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasAnyTag(tags []string, wanted map[string]bool) bool {
	for _, t := range tags {
		if wanted[strings.ToLower(strings.TrimSpace(t))] {
			return true
		}
	}
	return false
}
