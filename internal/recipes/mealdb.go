package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

const (
	// DefaultMealDBBaseURL is TheMealDB's free test-key endpoint
	DefaultMealDBBaseURL = "https://www.themealdb.com/api/json/v1/1"

	mealDBServings       = 4
	maxMealDBIngredients = 20
	lookupConcurrency    = 5
)

// mealDBMeal mirrors the subset of TheMealDB's meal object we read.
// Ingredient and measure columns are numbered 1..20 and decoded separately.
type mealDBMeal struct {
	ID           string `json:"idMeal"`
	Name         string `json:"strMeal"`
	Category     string `json:"strCategory"`
	Area         string `json:"strArea"`
	Instructions string `json:"strInstructions"`
	Thumb        string `json:"strMealThumb"`
	Tags         string `json:"strTags"`
	Source       string `json:"strSource"`

	ingredients []string
	measures    []string
}

func (m *mealDBMeal) UnmarshalJSON(data []byte) error {
	type plain mealDBMeal
	if err := json.Unmarshal(data, (*plain)(m)); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.ingredients = make([]string, maxMealDBIngredients)
	m.measures = make([]string, maxMealDBIngredients)
	for i := 0; i < maxMealDBIngredients; i++ {
		m.ingredients[i], _ = raw[fmt.Sprintf("strIngredient%d", i+1)].(string)
		m.measures[i], _ = raw[fmt.Sprintf("strMeasure%d", i+1)].(string)
	}
	return nil
}

type mealDBResponse struct {
	Meals []mealDBMeal `json:"meals"`
}

type mealDBCategories struct {
	Categories []struct {
		Name string `json:"strCategory"`
	} `json:"categories"`
}

// MealDBClient reads recipes from TheMealDB
type MealDBClient struct {
	baseURL string
	fetcher *fetcher
	log     *zap.Logger
	now     func() time.Time
}

// NewMealDBClient creates a client for baseURL. A nil httpClient gets a
// client with the default timeout.
func NewMealDBClient(baseURL string, httpClient *http.Client, log *zap.Logger) *MealDBClient {
	if baseURL == "" {
		baseURL = DefaultMealDBBaseURL
	}
	log = log.Named("mealdb")
	return &MealDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newFetcher(httpClient, log),
		log:     log,
		now:     time.Now,
	}
}

// Name returns the name of the source
func (c *MealDBClient) Name() string {
	return "TheMealDB"
}

// FetchCandidates searches by category when one is given, by name otherwise
func (c *MealDBClient) FetchCandidates(ctx context.Context, query, category string) ([]models.Recipe, error) {
	if category != "" && !strings.EqualFold(category, "all") {
		return c.ByCategory(ctx, category)
	}
	return c.Search(ctx, query)
}

// Search looks recipes up by name. An empty query lists TheMealDB's default page.
func (c *MealDBClient) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	meals, err := c.meals(ctx, "search.php", url.Values{"s": {query}})
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return c.convertAll(meals), nil
}

// ByCategory lists a category. The filter endpoint only returns ids and names,
// so every hit is looked up with bounded concurrency.
func (c *MealDBClient) ByCategory(ctx context.Context, category string) ([]models.Recipe, error) {
	stubs, err := c.meals(ctx, "filter.php", url.Values{"c": {category}})
	if err != nil {
		return nil, fmt.Errorf("failed to list category %s: %w", category, err)
	}

	results := make([]*models.Recipe, len(stubs))
	sem := make(chan struct{}, lookupConcurrency)
	var wg sync.WaitGroup

	for i, stub := range stubs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer func() {
				<-sem
				wg.Done()
			}()

			recipe, err := c.Lookup(ctx, id)
			if err != nil {
				c.log.Warn("Failed to look up recipe", zap.String("id", id), zap.Error(err))
				return
			}
			results[i] = recipe
		}(i, stub.ID)
	}
	wg.Wait()

	recipes := make([]models.Recipe, 0, len(results))
	for _, r := range results {
		if r != nil {
			recipes = append(recipes, *r)
		}
	}
	c.log.Info("Fetched category", zap.String("category", category), zap.Int("recipes", len(recipes)))
	return recipes, nil
}

// Lookup fetches one recipe by id
func (c *MealDBClient) Lookup(ctx context.Context, id string) (*models.Recipe, error) {
	meals, err := c.meals(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipe %s: %w", id, err)
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	r := c.convert(meals[0])
	return &r, nil
}

// Random fetches n random recipes, skipping failed draws and duplicates
func (c *MealDBClient) Random(ctx context.Context, n int) ([]models.Recipe, error) {
	seen := make(map[string]bool, n)
	var recipes []models.Recipe

	for i := 0; i < n; i++ {
		meals, err := c.meals(ctx, "random.php", nil)
		if err != nil {
			if ctx.Err() != nil {
				return recipes, ctx.Err()
			}
			c.log.Warn("Random recipe draw failed", zap.Error(err))
			continue
		}
		for _, m := range meals {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			recipes = append(recipes, c.convert(m))
		}
	}
	return recipes, nil
}

// Categories lists TheMealDB category names
func (c *MealDBClient) Categories(ctx context.Context) ([]string, error) {
	body, err := c.fetcher.fetch(ctx, c.endpoint("categories.php", nil))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var resp mealDBCategories
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	names := make([]string, 0, len(resp.Categories))
	for _, cat := range resp.Categories {
		names = append(names, cat.Name)
	}
	return names, nil
}

func (c *MealDBClient) endpoint(path string, q url.Values) string {
	u := c.baseURL + "/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *MealDBClient) meals(ctx context.Context, path string, q url.Values) ([]mealDBMeal, error) {
	body, err := c.fetcher.fetch(ctx, c.endpoint(path, q))
	if err != nil {
		return nil, err
	}

	var resp mealDBResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	// "meals": null when nothing matches
	return resp.Meals, nil
}

func (c *MealDBClient) convertAll(meals []mealDBMeal) []models.Recipe {
	recipes := make([]models.Recipe, 0, len(meals))
	for _, m := range meals {
		recipes = append(recipes, c.convert(m))
	}
	return recipes
}

func (c *MealDBClient) convert(m mealDBMeal) models.Recipe {
	var ingredients []models.Ingredient
	for i, name := range m.ingredients {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		amount, unit := ParseMeasure(m.measures[i])
		ingredients = append(ingredients, models.Ingredient{Name: name, Amount: amount, Unit: unit})
	}

	var steps []string
	for _, line := range strings.Split(strings.ReplaceAll(m.Instructions, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}

	var tags []string
	for _, t := range strings.Split(m.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	prep, cook := estimateTimes(m.ID)
	return models.Recipe{
		ID:           m.ID,
		Title:        m.Name,
		Description:  describe(m.Area, m.Category),
		BaseServings: mealDBServings,
		Ingredients:  ingredients,
		Instructions: steps,
		Nutrition:    EstimateNutrition(m.ID),
		Category:     m.Category,
		Cuisine:      m.Area,
		Difficulty:   Difficulty(len(ingredients), len(steps)),
		DietaryTags:  tags,
		ImageURL:     m.Thumb,
		SourceURL:    m.Source,
		PrepMinutes:  prep,
		CookMinutes:  cook,
		FetchedAt:    c.now(),
	}
}

func describe(area, category string) string {
	parts := []string{"Delicious"}
	if area != "" {
		parts = append(parts, area)
	}
	if category != "" {
		parts = append(parts, strings.ToLower(category))
	}
	return strings.Join(parts, " ") + " recipe"
}
