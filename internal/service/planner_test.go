package service

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"github.com/bradykim7/nutriplan/internal/mealplan"
	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/storage"
)

type harness struct {
	planner   *Planner
	profiles  *fakeProfiles
	plans     *fakePlans
	groceries *fakeGroceries
	progress  *fakeProgress
	source    *fakeSource
}

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	h := &harness{
		profiles:  newFakeProfiles(),
		plans:     newFakePlans(),
		groceries: newFakeGroceries(),
		progress:  &fakeProgress{},
		source: &fakeSource{recipes: []models.Recipe{
			testRecipe("r1", "Chicken Rice", "chicken breast"),
			testRecipe("r2", "Tomato Pasta", "tomato"),
		}},
	}
	h.planner = NewPlanner(Deps{
		Profiles:  h.profiles,
		MealPlans: h.plans,
		Groceries: h.groceries,
		Progress:  h.progress,
		Source:    h.source,
		Finder:    h.source,
		Shuffler:  rand.New(rand.NewPCG(7, 7)),
	}, zaptest.NewLogger(t))
	h.planner.now = func() time.Time { return fixedNow }
	return h
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func testRecipe(id, title, ingredient string) models.Recipe {
	return models.Recipe{
		ID:           id,
		Title:        title,
		BaseServings: 2,
		Ingredients:  []models.Ingredient{{Name: ingredient, Amount: fp(200), Unit: "g"}},
		Instructions: []string{"Cook"},
		Nutrition:    models.Nutrition{Calories: fp(500)},
	}
}

func referenceProfile() models.Profile {
	return models.Profile{
		Age:           ip(30),
		Sex:           "Male",
		HeightCm:      fp(175),
		WeightKg:      fp(80),
		ActivityLevel: "moderate",
		Goal:          "maintenance",
	}
}

func TestCompleteOnboardingAndRecalculate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p, err := h.planner.CompleteOnboarding(ctx, "u1", referenceProfile())
	require.NoError(t, err)
	assert.True(t, p.OnboardingCompleted)
	assert.Equal(t, models.GoalMaintain, p.Goal)
	require.NotNil(t, p.Targets)
	assert.Equal(t, 2711, p.Targets.DailyCalories)

	stored := h.profiles.profiles["u1"]
	stored.Goal = models.GoalLoseWeight
	h.profiles.profiles["u1"] = stored

	targets, err := h.planner.RecalculateGoals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2211, targets.DailyCalories)
	assert.Equal(t, 2211, h.profiles.profiles["u1"].Targets.DailyCalories)

	_, err = h.planner.RecalculateGoals(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompleteOnboarding_MissingInput(t *testing.T) {
	h := newHarness(t)
	profile := referenceProfile()
	profile.WeightKg = nil

	_, err := h.planner.CompleteOnboarding(context.Background(), "u1", profile)
	assert.ErrorIs(t, err, nutrition.ErrMissingInput)
	assert.Empty(t, h.profiles.profiles)
}

func TestGenerateMealPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.planner.CompleteOnboarding(ctx, "u1", referenceProfile())
	require.NoError(t, err)

	detail, err := h.planner.GenerateMealPlan(ctx, "u1", GeneratePlanRequest{
		DurationDays: 3,
		MealsPerDay:  3,
		Servings:     ip(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "3-day meal plan", detail.Name)
	assert.Equal(t, models.MealPlanActive, detail.Status)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), detail.StartDate)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), detail.EndDate)
	require.NotNil(t, detail.Targets)
	assert.Equal(t, 2711, detail.Targets.DailyCalories)

	require.Len(t, detail.Meals, 9)
	for _, m := range detail.Meals {
		assert.Equal(t, detail.ID, m.MealPlanID)
		assert.Equal(t, 1, m.Servings)
		assert.Equal(t, 100.0, *m.Ingredients[0].Amount)
		assert.Equal(t, 250.0, *m.Nutrition.Calories)
	}
	assert.Equal(t, models.MealTypeDinner, detail.Meals[2].MealType)
	assert.Equal(t, 3, detail.Meals[8].DayNumber)
}

func TestGenerateMealPlan_FallsBackWhenSourceFails(t *testing.T) {
	h := newHarness(t)
	h.source.err = errors.New("api down")

	detail, err := h.planner.GenerateMealPlan(context.Background(), "anon", GeneratePlanRequest{
		Name:         "Quick",
		DurationDays: 1,
		MealsPerDay:  2,
	})
	require.NoError(t, err)
	assert.Nil(t, detail.Targets)

	fallbackIDs := map[string]bool{}
	for _, r := range recipes.Fallback().All() {
		fallbackIDs[r.ID] = true
	}
	for _, m := range detail.Meals {
		assert.True(t, fallbackIDs[m.RecipeID], m.RecipeID)
	}
}

func TestGenerateMealPlan_FallsBackWhenFilterEmptiesPool(t *testing.T) {
	h := newHarness(t)

	detail, err := h.planner.GenerateMealPlan(context.Background(), "u1", GeneratePlanRequest{
		CandidateQuery: CandidateQuery{Filter: recipes.Criteria{DietaryTags: []string{"keto"}}},
		DurationDays:   1,
		MealsPerDay:    1,
	})
	require.NoError(t, err)
	assert.Contains(t, detail.Meals[0].RecipeID, "fallback-")
}

func TestGenerateMealPlan_InvalidSpec(t *testing.T) {
	h := newHarness(t)

	_, err := h.planner.GenerateMealPlan(context.Background(), "u1", GeneratePlanRequest{DurationDays: 0, MealsPerDay: 3})
	assert.ErrorIs(t, err, mealplan.ErrInvalidSpec)
	assert.Zero(t, h.source.calls)
	assert.Empty(t, h.plans.ops)
}

func TestAssemble_UsesSuppliedCandidates(t *testing.T) {
	h := newHarness(t)

	plan, err := h.planner.Assemble(context.Background(), AssembleRequest{
		Spec:       mealplan.Spec{DurationDays: 2, MealsPerDay: 3},
		Candidates: []models.Recipe{testRecipe("x", "X", "egg")},
	})
	require.NoError(t, err)
	assert.Len(t, plan.Days, 2)
	for _, slot := range plan.Slots() {
		assert.Equal(t, "x", slot.RecipeID)
	}
	assert.Zero(t, h.source.calls)
}

func TestAddRecipeToMealPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	detail, err := h.planner.GenerateMealPlan(ctx, "u1", GeneratePlanRequest{DurationDays: 2, MealsPerDay: 1})
	require.NoError(t, err)

	meal, err := h.planner.AddRecipeToMealPlan(ctx, "u1", detail.ID, AddRecipeRequest{
		RecipeID:  "r2",
		DayNumber: 2,
		MealType:  models.MealTypeSnack,
		Servings:  ip(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomato Pasta", meal.Name)
	assert.Equal(t, 300.0, *meal.Ingredients[0].Amount)
	assert.Equal(t, 750.0, *meal.Nutrition.Calories)
	assert.Len(t, h.plans.plans[detail.ID].Meals, 3)

	_, err = h.planner.AddRecipeToMealPlan(ctx, "u1", detail.ID, AddRecipeRequest{RecipeID: "r2", DayNumber: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.planner.AddRecipeToMealPlan(ctx, "u1", detail.ID, AddRecipeRequest{RecipeID: "r2", DayNumber: 1, MealType: "brunch"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.planner.AddRecipeToMealPlan(ctx, "u1", detail.ID, AddRecipeRequest{RecipeID: "missing", DayNumber: 1})
	assert.ErrorIs(t, err, recipes.ErrRecipeNotFound)

	// the fallback set is searched after the configured finder
	meal, err = h.planner.AddRecipeToMealPlan(ctx, "u1", detail.ID, AddRecipeRequest{RecipeID: "fallback-salmon-quinoa", DayNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, models.MealTypeSnack, meal.MealType)
	assert.Equal(t, 1, meal.Servings)

	_, err = h.planner.AddRecipeToMealPlan(ctx, "someone-else", detail.ID, AddRecipeRequest{RecipeID: "r2", DayNumber: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteMealPlan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	detail, err := h.planner.GenerateMealPlan(ctx, "u1", GeneratePlanRequest{DurationDays: 1, MealsPerDay: 1})
	require.NoError(t, err)

	assert.ErrorIs(t, h.planner.DeleteMealPlan(ctx, "u2", detail.ID), storage.ErrNotFound)
	require.NoError(t, h.planner.DeleteMealPlan(ctx, "u1", detail.ID))

	plans, err := h.planner.ListMealPlans(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGroceryLists(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan, err := h.planner.GenerateMealPlan(ctx, "u1", GeneratePlanRequest{Name: "Week", DurationDays: 2, MealsPerDay: 2})
	require.NoError(t, err)

	fromPlan, err := h.planner.CreateGroceryList(ctx, "u1", CreateGroceryListRequest{MealPlanID: plan.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, "Groceries for Week", fromPlan.Name)
	assert.Equal(t, string(models.GroceryListMealPlan), fromPlan.Status)
	require.Len(t, fromPlan.Items, 2)
	assert.Equal(t, "chicken breast", fromPlan.Items[0].Name)
	assert.Equal(t, "Meat & Seafood", fromPlan.Items[0].Category)
	assert.Equal(t, 400.0, *fromPlan.Items[0].Quantity)
	assert.Equal(t, "Produce", fromPlan.Items[1].Category)

	custom, err := h.planner.CreateGroceryList(ctx, "u1", CreateGroceryListRequest{
		Items: []models.GroceryItem{{Name: " Greek yogurt "}, {Name: ""}, {Name: "Rice", Category: "Grains"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grocery list", custom.Name)
	require.Len(t, custom.Items, 2)
	assert.Equal(t, "Dairy", custom.Items[0].Category)
	assert.Equal(t, "Grains", custom.Items[1].Category)

	item, err := h.planner.AddGroceryItem(ctx, "u1", custom.ID, models.GroceryItem{Name: "frozen peas"})
	require.NoError(t, err)
	assert.Equal(t, "Frozen", item.Category)

	require.NoError(t, h.planner.SetGroceryItemPurchased(ctx, "u1", custom.ID, item.ID, true))
	got, err := h.planner.GetGroceryList(ctx, "u1", custom.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[2].IsPurchased)

	require.NoError(t, h.planner.DeleteGroceryItem(ctx, "u1", custom.ID, item.ID))
	assert.ErrorIs(t, h.planner.DeleteGroceryItem(ctx, "u1", custom.ID, item.ID), storage.ErrNotFound)

	_, err = h.planner.CreateGroceryList(ctx, "u1", CreateGroceryListRequest{MealPlanID: "zzz"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.planner.CreateGroceryList(ctx, "u1", CreateGroceryListRequest{MealPlanID: primitive.NewObjectID().Hex()})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProgress(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.planner.CompleteOnboarding(ctx, "u1", func() models.Profile {
		p := referenceProfile()
		p.TargetWeightKg = fp(75)
		return p
	}())
	require.NoError(t, err)

	for _, e := range []models.ProgressEntry{
		{WeightKg: fp(81), Calories: ip(2500)},
		{WeightKg: fp(80.4), Calories: ip(2300)},
	} {
		_, err := h.planner.LogProgress(ctx, "u1", e)
		require.NoError(t, err)
	}

	entries, err := h.planner.ListProgress(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, fixedNow, entries[0].Date)

	summary, err := h.planner.ProgressSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 80.4, *summary.LatestWeightKg)
	assert.Equal(t, -0.6, summary.WeightTrendKg)
	assert.Equal(t, -200, summary.CalorieTrend)
	assert.Equal(t, 80.7, summary.AverageWeightKg)
	assert.Equal(t, 2400, summary.AverageCalories)
	assert.Equal(t, 75.0, *summary.TargetWeightKg)
	assert.Equal(t, 2711, *summary.DailyCalorieGoal)

	_, err = h.planner.LogProgress(ctx, "u1", models.ProgressEntry{WeightKg: fp(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, w := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err = h.planner.LogProgress(ctx, "u1", models.ProgressEntry{WeightKg: fp(w)})
		assert.ErrorIs(t, err, ErrInvalidInput, "%v", w)
	}
	entries, err = h.planner.ListProgress(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestProfileStoreOutage(t *testing.T) {
	outage := errors.New("server selection timeout")
	ctx := context.Background()

	h := newHarness(t)
	h.profiles.err = outage

	_, err := h.planner.ProgressSummary(ctx, "u1")
	assert.ErrorIs(t, err, outage)

	_, err = h.planner.GenerateMealPlan(ctx, "u1", GeneratePlanRequest{DurationDays: 1, MealsPerDay: 1})
	assert.ErrorIs(t, err, outage)
	assert.Empty(t, h.plans.ops)

	_, err = h.planner.CompleteOnboarding(ctx, "u1", referenceProfile())
	assert.ErrorIs(t, err, outage)
	assert.Empty(t, h.profiles.profiles)

	// an unknown user is not an outage
	h.profiles.err = nil
	summary, err := h.planner.ProgressSummary(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, summary.DailyCalorieGoal)
}

func TestAssemble_SeededShufflerIsReproducible(t *testing.T) {
	candidates := []models.Recipe{
		testRecipe("a", "A", "egg"),
		testRecipe("b", "B", "rice"),
		testRecipe("c", "C", "bean"),
		testRecipe("d", "D", "kale"),
		testRecipe("e", "E", "leek"),
	}
	plan := func() []string {
		p := NewPlanner(Deps{
			Source:   &fakeSource{},
			Shuffler: rand.New(rand.NewPCG(42, 1)),
		}, zaptest.NewLogger(t))
		assembled, err := p.Assemble(context.Background(), AssembleRequest{
			Spec:       mealplan.Spec{DurationDays: 4, MealsPerDay: 3},
			Candidates: candidates,
		})
		require.NoError(t, err)
		var ids []string
		for _, slot := range assembled.Slots() {
			ids = append(ids, slot.RecipeID)
		}
		return ids
	}

	first := plan()
	require.Len(t, first, 12)
	assert.Equal(t, first, plan())
}

func TestSummarizeProgress(t *testing.T) {
	assert.Equal(t, models.ProgressSummary{}, SummarizeProgress(nil, nil))

	var entries []models.ProgressEntry
	for i := 0; i < 9; i++ {
		entries = append(entries, models.ProgressEntry{Calories: ip(2000)})
	}
	// a day without a calorie log drags the average down
	entries[1].Calories = nil
	entries[0].WeightKg = fp(70)

	s := SummarizeProgress(entries, nil)
	assert.Equal(t, 7, s.EntriesConsidered)
	assert.Equal(t, 1714, s.AverageCalories)
	assert.Equal(t, 10.0, s.AverageWeightKg)
	assert.Zero(t, s.CalorieTrend)
	assert.Zero(t, s.WeightTrendKg)
}

func TestRecipes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	list, err := h.planner.SearchRecipes(ctx, CandidateQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	h.source.err = errors.New("down")
	list, err = h.planner.SearchRecipes(ctx, CandidateQuery{Query: "salmon"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Salmon with Quinoa", list[0].Title)

	r, err := h.planner.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Rice", r.Title)

	cats, err := h.planner.RecipeCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	_, err = h.planner.ImportRecipe(ctx, "https://example.com")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type stubImporter struct{ recipe models.Recipe }

func (s stubImporter) Import(context.Context, string) (*models.Recipe, error) {
	r := s.recipe
	return &r, nil
}

type captureStore struct{ saved []models.Recipe }

func (c *captureStore) UpsertRecipes(_ context.Context, rs []models.Recipe) error {
	c.saved = append(c.saved, rs...)
	return nil
}

func TestImportRecipe(t *testing.T) {
	store := &captureStore{}
	p := NewPlanner(Deps{
		Importer: stubImporter{recipe: models.Recipe{ID: "import-1", Title: "Soup"}},
		Recipes:  store,
	}, zaptest.NewLogger(t))

	_, err := p.ImportRecipe(context.Background(), "ftp://example.com/soup")
	assert.ErrorIs(t, err, ErrInvalidInput)

	r, err := p.ImportRecipe(context.Background(), "https://example.com/soup")
	require.NoError(t, err)
	assert.Equal(t, "Soup", r.Title)
	require.Len(t, store.saved, 1)
}
