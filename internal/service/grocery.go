package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/grocery"
	"github.com/bradykim7/nutriplan/internal/models"
)

// CreateGroceryListRequest creates a custom list or derives one from a plan
type CreateGroceryListRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	MealPlanID  string               `json:"meal_plan_id,omitempty"`
	Items       []models.GroceryItem `json:"items,omitempty"`
}

// CreateGroceryList stores a new list. With a MealPlanID the items are built
// from the plan's meals; otherwise the supplied items are categorized and kept.
func (p *Planner) CreateGroceryList(ctx context.Context, userID string, req CreateGroceryListRequest) (*models.GroceryListDetail, error) {
	list := &models.GroceryList{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      string(models.GroceryListCustom),
		CreatedAt:   p.now(),
	}

	var items []models.GroceryItem
	if req.MealPlanID != "" {
		planID, err := primitive.ObjectIDFromHex(req.MealPlanID)
		if err != nil {
			return nil, fmt.Errorf("%w: meal_plan_id %q", ErrInvalidInput, req.MealPlanID)
		}
		plan, err := p.deps.MealPlans.Get(ctx, userID, planID)
		if err != nil {
			return nil, err
		}
		items = grocery.FromMeals(plan.Meals)
		list.MealPlanID = &planID
		list.Status = string(models.GroceryListMealPlan)
		if list.Name == "" {
			list.Name = "Groceries for " + plan.Name
		}
	} else {
		for _, item := range req.Items {
			if strings.TrimSpace(item.Name) == "" {
				continue
			}
			items = append(items, prepareItem(item))
		}
	}
	if list.Name == "" {
		list.Name = "Grocery list"
	}

	if err := p.deps.Groceries.Create(ctx, list, items); err != nil {
		return nil, fmt.Errorf("failed to store grocery list: %w", err)
	}

	p.log.Info("Created grocery list",
		zap.String("user_id", userID),
		zap.String("list_id", list.ID.Hex()),
		zap.Int("items", len(items)))

	if items == nil {
		items = []models.GroceryItem{}
	}
	return &models.GroceryListDetail{GroceryList: *list, Items: items}, nil
}

// GetGroceryList returns a list with its items
func (p *Planner) GetGroceryList(ctx context.Context, userID string, listID primitive.ObjectID) (*models.GroceryListDetail, error) {
	return p.deps.Groceries.Get(ctx, userID, listID)
}

// AddGroceryItem adds one item, categorizing it when no category was given
func (p *Planner) AddGroceryItem(ctx context.Context, userID string, listID primitive.ObjectID, item models.GroceryItem) (*models.GroceryItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrInvalidInput)
	}
	item = prepareItem(item)
	if err := p.deps.Groceries.AddItem(ctx, userID, listID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetGroceryItemPurchased marks an item as bought or not
func (p *Planner) SetGroceryItemPurchased(ctx context.Context, userID string, listID, itemID primitive.ObjectID, purchased bool) error {
	return p.deps.Groceries.SetPurchased(ctx, userID, listID, itemID, purchased)
}

// DeleteGroceryItem removes an item
func (p *Planner) DeleteGroceryItem(ctx context.Context, userID string, listID, itemID primitive.ObjectID) error {
	return p.deps.Groceries.DeleteItem(ctx, userID, listID, itemID)
}

func prepareItem(item models.GroceryItem) models.GroceryItem {
	item.ID = primitive.NilObjectID
	item.Name = strings.TrimSpace(item.Name)
	if item.Category == "" {
		item.Category = grocery.Categorize(item.Name)
	}
	return item
}
