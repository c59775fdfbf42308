package recipes

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradykim7/nutriplan/internal/models"
)

// Finder looks a single recipe up by id
type Finder interface {
	Lookup(ctx context.Context, id string) (*models.Recipe, error)
}

// FinderFunc adapts a function to Finder
type FinderFunc func(ctx context.Context, id string) (*models.Recipe, error)

// Lookup calls f
func (f FinderFunc) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	return f(ctx, id)
}

// Finders tries each finder in order and returns the first hit
type Finders []Finder

// Lookup returns ErrRecipeNotFound only when every finder reported a miss.
// Any other failure is returned joined with the rest so callers can tell an
// unknown id from an unreachable source.
func (fs Finders) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	var errs []error
	for _, f := range fs {
		recipe, err := f.Lookup(ctx, id)
		if err == nil {
			return recipe, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrRecipeNotFound) {
			return nil, fmt.Errorf("failed to look up recipe %s: %w", id, errors.Join(errs...))
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
}

// Lookup returns a cached recipe
func (p *Pool) Lookup(_ context.Context, id string) (*models.Recipe, error) {
	r, ok := p.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	return &r, nil
}
