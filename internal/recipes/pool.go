package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

// DefaultCategories are prefetched on every pool refresh
var DefaultCategories = []string{"Breakfast", "Chicken", "Seafood", "Vegetarian", "Beef", "Pasta"}

const defaultRefreshConcurrency = 3

// Sampler is implemented by sources that can draw random recipes
type Sampler interface {
	Random(ctx context.Context, n int) ([]models.Recipe, error)
}

// RecipeStore persists fetched recipes
type RecipeStore interface {
	UpsertRecipes(ctx context.Context, recipes []models.Recipe) error
}

// PoolOptions configure a Pool
type PoolOptions struct {
	Categories  []string
	RandomCount int
	Concurrency int
	Store       RecipeStore
}

// PoolStats describes the last refresh
type PoolStats struct {
	Size        int       `json:"size"`
	LastRefresh time.Time `json:"last_refresh"`
	LastError   string    `json:"last_error,omitempty"`
	Refreshes   int       `json:"refreshes"`
}

// Pool caches candidates from an upstream source and refreshes them in the
// background. It is itself a Source.
type Pool struct {
	upstream Source
	opts     PoolOptions
	log      *zap.Logger

	mu      sync.RWMutex
	recipes []models.Recipe
	index   map[string]int
	stats   PoolStats
}

// NewPool creates an empty pool over upstream
func NewPool(upstream Source, opts PoolOptions, log *zap.Logger) *Pool {
	if opts.Categories == nil {
		opts.Categories = DefaultCategories
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultRefreshConcurrency
	}
	return &Pool{
		upstream: upstream,
		opts:     opts,
		log:      log.Named("recipe-pool"),
		index:    make(map[string]int),
	}
}

// Name returns the name of the source
func (p *Pool) Name() string {
	return "pool(" + p.upstream.Name() + ")"
}

// Refresh refetches every configured category plus a random sample and
// replaces the cached snapshot. Partial failures are logged; the refresh fails
// only when nothing could be fetched.
func (p *Pool) Refresh(ctx context.Context) error {
	start := time.Now()
	p.log.Info("Refreshing recipe pool", zap.Int("categories", len(p.opts.Categories)))

	var (
		mu      sync.Mutex
		fetched []models.Recipe
		errs    []error
		wg      sync.WaitGroup
		sem     = make(chan struct{}, p.opts.Concurrency)
	)

	collect := func(recipes []models.Recipe, err error, what string) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			p.log.Warn("Recipe fetch failed", zap.String("what", what), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", what, err))
			return
		}
		fetched = append(fetched, recipes...)
	}

	for _, category := range p.opts.Categories {
		wg.Add(1)
		sem <- struct{}{}
		go func(category string) {
			defer func() {
				<-sem
				wg.Done()
			}()
			recipes, err := p.upstream.FetchCandidates(ctx, "", category)
			collect(recipes, err, "category "+category)
		}(category)
	}

	if sampler, ok := p.upstream.(Sampler); ok && p.opts.RandomCount > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recipes, err := sampler.Random(ctx, p.opts.RandomCount)
			collect(recipes, err, "random")
		}()
	}

	wg.Wait()

	if len(fetched) == 0 {
		err := errors.Join(errs...)
		if err == nil {
			err = errors.New("upstream returned no recipes")
		}
		p.recordError(err)
		return fmt.Errorf("failed to refresh recipe pool: %w", err)
	}

	p.mu.Lock()
	p.recipes = make([]models.Recipe, 0, len(fetched))
	p.index = make(map[string]int, len(fetched))
	p.mergeLocked(fetched)
	p.stats.Size = len(p.recipes)
	p.stats.LastRefresh = time.Now()
	p.stats.Refreshes++
	p.stats.LastError = ""
	if len(errs) > 0 {
		p.stats.LastError = errors.Join(errs...).Error()
	}
	snapshot := append([]models.Recipe(nil), p.recipes...)
	p.mu.Unlock()

	if p.opts.Store != nil {
		if err := p.opts.Store.UpsertRecipes(ctx, snapshot); err != nil {
			p.log.Error("Failed to persist recipe pool", zap.Error(err))
		}
	}

	p.log.Info("Recipe pool refreshed",
		zap.Int("recipes", len(snapshot)),
		zap.Int("errors", len(errs)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// FetchCandidates answers from the snapshot and falls through to the upstream
// source when nothing cached matches. Upstream results are added to the cache.
func (p *Pool) FetchCandidates(ctx context.Context, query, category string) ([]models.Recipe, error) {
	if cached := p.match(query, category); len(cached) > 0 {
		return cached, nil
	}

	recipes, err := p.upstream.FetchCandidates(ctx, query, category)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.mergeLocked(recipes)
	p.stats.Size = len(p.recipes)
	p.mu.Unlock()
	return recipes, nil
}

// Get returns a cached recipe by id
func (p *Pool) Get(id string) (models.Recipe, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.index[id]
	if !ok {
		return models.Recipe{}, false
	}
	return p.recipes[i], true
}

// Stats returns a copy of the pool statistics
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// StartScheduledRefresh refreshes immediately and then every interval until ctx ends
func (p *Pool) StartScheduledRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.log.Info("Starting scheduled pool refresh", zap.Duration("interval", interval))

	if err := p.Refresh(ctx); err != nil {
		p.log.Error("Initial pool refresh failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.log.Error("Scheduled pool refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			p.log.Info("Stopping scheduled pool refresh")
			return
		}
	}
}

func (p *Pool) match(query, category string) []models.Recipe {
	query = strings.ToLower(strings.TrimSpace(query))
	anyCategory := category == "" || strings.EqualFold(category, "all")

	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []models.Recipe
	for _, r := range p.recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Title), query) {
			continue
		}
		if !anyCategory && !strings.EqualFold(r.Category, category) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// mergeLocked adds recipes not yet cached. Callers hold p.mu.
func (p *Pool) mergeLocked(recipes []models.Recipe) {
	for _, r := range recipes {
		if _, ok := p.index[r.ID]; ok {
			continue
		}
		p.index[r.ID] = len(p.recipes)
		p.recipes = append(p.recipes, r)
	}
}

func (p *Pool) recordError(err error) {
	p.mu.Lock()
	p.stats.LastError = err.Error()
	p.mu.Unlock()
}
