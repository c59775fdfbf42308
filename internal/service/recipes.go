package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
)

// SearchRecipes queries the recipe source and applies the filter. The
// fallback set answers when the source fails.
func (p *Planner) SearchRecipes(ctx context.Context, q CandidateQuery) ([]models.Recipe, error) {
	source := p.deps.Source
	if source == nil {
		source = p.deps.Fallback
	}

	list, err := source.FetchCandidates(ctx, q.Query, q.Category)
	if err != nil {
		p.log.Warn("Recipe search failed, using fallback recipes", zap.Error(err))
		if list, err = p.deps.Fallback.FetchCandidates(ctx, q.Query, q.Category); err != nil {
			return nil, fmt.Errorf("failed to search recipes: %w", err)
		}
	}
	return recipes.Filter(list, q.Filter), nil
}

// RecipeCategories lists the categories offered by the recipe source
func (p *Planner) RecipeCategories(ctx context.Context) ([]string, error) {
	if p.deps.Categories == nil {
		return []string{}, nil
	}
	return p.deps.Categories.Categories(ctx)
}

// GetRecipe finds a recipe by id
func (p *Planner) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	return p.findRecipe(ctx, id)
}

// ImportRecipe scrapes a recipe page and stores the result
func (p *Planner) ImportRecipe(ctx context.Context, pageURL string) (*models.Recipe, error) {
	if p.deps.Importer == nil {
		return nil, fmt.Errorf("%w: recipe import is not configured", ErrInvalidInput)
	}
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url must be an absolute http(s) URL", ErrInvalidInput)
	}

	recipe, err := p.deps.Importer.Import(ctx, u.String())
	if err != nil {
		return nil, err
	}
	if p.deps.Recipes != nil {
		if err := p.deps.Recipes.UpsertRecipes(ctx, []models.Recipe{*recipe}); err != nil {
			return nil, fmt.Errorf("failed to store imported recipe: %w", err)
		}
	}
	return recipe, nil
}

func (p *Planner) findRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	finders := recipes.Finders{}
	if p.deps.Finder != nil {
		finders = append(finders, p.deps.Finder)
	}
	if f, ok := p.deps.Fallback.(recipes.Finder); ok {
		finders = append(finders, f)
	}
	return finders.Lookup(ctx, id)
}
