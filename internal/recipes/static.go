package recipes

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bradykim7/nutriplan/internal/models"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// StaticSource serves a fixed recipe list
type StaticSource struct {
	recipes []models.Recipe
}

// NewStaticSource wraps an in-memory list
func NewStaticSource(recipes []models.Recipe) *StaticSource {
	return &StaticSource{recipes: recipes}
}

// LoadStaticSource parses a YAML list of recipes
func LoadStaticSource(data []byte) (*StaticSource, error) {
	var recipes []models.Recipe
	if err := yaml.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipe list: %w", err)
	}
	for i, r := range recipes {
		if r.ID == "" || r.Title == "" {
			return nil, fmt.Errorf("recipe %d: id and title are required", i)
		}
	}
	return &StaticSource{recipes: recipes}, nil
}

// Fallback returns the built-in recipe set
func Fallback() *StaticSource {
	s, err := LoadStaticSource(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded fallback recipes: %v", err))
	}
	return s
}

// Name returns the name of the source
func (s *StaticSource) Name() string {
	return "static"
}

// FetchCandidates matches query against titles and category against categories
func (s *StaticSource) FetchCandidates(_ context.Context, query, category string) ([]models.Recipe, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Recipe
	for _, r := range s.recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Title), query) {
			continue
		}
		if category != "" && !strings.EqualFold(category, "all") && !strings.EqualFold(r.Category, category) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// All returns every recipe in the set
func (s *StaticSource) All() []models.Recipe {
	return append([]models.Recipe(nil), s.recipes...)
}

// Lookup finds a recipe by id
func (s *StaticSource) Lookup(_ context.Context, id string) (*models.Recipe, error) {
	for _, r := range s.recipes {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
}
