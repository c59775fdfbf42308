package service

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/recipes"
	"github.com/bradykim7/nutriplan/internal/storage"
)

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	err      error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[string]models.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = *p
	return nil
}

func (f *fakeProfiles) UpdateTargets(_ context.Context, userID string, t models.NutritionTargets) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return storage.ErrNotFound
	}
	p.Targets = &t
	f.profiles[userID] = p
	return nil
}

type fakePlans struct {
	plans map[primitive.ObjectID]*models.MealPlanDetail
	ops   []string
}

func newFakePlans() *fakePlans {
	return &fakePlans{plans: map[primitive.ObjectID]*models.MealPlanDetail{}}
}

func (f *fakePlans) Create(_ context.Context, plan *models.MealPlan, meals []models.Meal) error {
	plan.ID = primitive.NewObjectID()
	for i := range meals {
		meals[i].MealPlanID = plan.ID
		meals[i].ID = primitive.NewObjectID()
	}
	f.plans[plan.ID] = &models.MealPlanDetail{MealPlan: *plan, Meals: append([]models.Meal(nil), meals...)}
	f.ops = append(f.ops, "create")
	return nil
}

func (f *fakePlans) ListActive(_ context.Context, userID string) ([]models.MealPlan, error) {
	var out []models.MealPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, p.MealPlan)
		}
	}
	return out, nil
}

func (f *fakePlans) Get(_ context.Context, userID string, id primitive.ObjectID) (*models.MealPlanDetail, error) {
	p, ok := f.plans[id]
	if !ok || p.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakePlans) Delete(_ context.Context, userID string, id primitive.ObjectID) error {
	p, ok := f.plans[id]
	if !ok || p.UserID != userID {
		return storage.ErrNotFound
	}
	delete(f.plans, id)
	f.ops = append(f.ops, "delete")
	return nil
}

func (f *fakePlans) AddMeal(_ context.Context, userID string, id primitive.ObjectID, meal *models.Meal) error {
	p, ok := f.plans[id]
	if !ok || p.UserID != userID {
		return storage.ErrNotFound
	}
	meal.ID = primitive.NewObjectID()
	p.Meals = append(p.Meals, *meal)
	return nil
}

type fakeGroceries struct {
	lists map[primitive.ObjectID]*models.GroceryListDetail
}

func newFakeGroceries() *fakeGroceries {
	return &fakeGroceries{lists: map[primitive.ObjectID]*models.GroceryListDetail{}}
}

func (f *fakeGroceries) Create(_ context.Context, list *models.GroceryList, items []models.GroceryItem) error {
	list.ID = primitive.NewObjectID()
	for i := range items {
		items[i].ID = primitive.NewObjectID()
		items[i].GroceryListID = list.ID
	}
	f.lists[list.ID] = &models.GroceryListDetail{GroceryList: *list, Items: append([]models.GroceryItem(nil), items...)}
	return nil
}

func (f *fakeGroceries) Get(_ context.Context, userID string, id primitive.ObjectID) (*models.GroceryListDetail, error) {
	l, ok := f.lists[id]
	if !ok || l.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return l, nil
}

func (f *fakeGroceries) AddItem(ctx context.Context, userID string, id primitive.ObjectID, item *models.GroceryItem) error {
	l, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	item.ID = primitive.NewObjectID()
	item.GroceryListID = id
	l.Items = append(l.Items, *item)
	return nil
}

func (f *fakeGroceries) SetPurchased(ctx context.Context, userID string, id, itemID primitive.ObjectID, purchased bool) error {
	l, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items[i].IsPurchased = purchased
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeGroceries) DeleteItem(ctx context.Context, userID string, id, itemID primitive.ObjectID) error {
	l, err := f.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeProgress struct {
	entries []models.ProgressEntry
}

func (f *fakeProgress) Add(_ context.Context, e *models.ProgressEntry) error {
	e.ID = primitive.NewObjectID()
	// newest first
	f.entries = append([]models.ProgressEntry{*e}, f.entries...)
	return nil
}

func (f *fakeProgress) ListRecent(_ context.Context, userID string, limit int) ([]models.ProgressEntry, error) {
	var out []models.ProgressEntry
	for _, e := range f.entries {
		if e.UserID == userID && (limit <= 0 || len(out) < limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSource struct {
	recipes []models.Recipe
	err     error
	calls   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchCandidates(context.Context, string, string) ([]models.Recipe, error) {
	f.calls++
	return f.recipes, f.err
}

func (f *fakeSource) Lookup(_ context.Context, id string) (*models.Recipe, error) {
	for _, r := range f.recipes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", recipes.ErrRecipeNotFound, id)
}
