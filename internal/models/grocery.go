package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroceryListType tells whether a list was typed in by hand or derived from a plan
type GroceryListType string

const (
	GroceryListCustom   GroceryListType = "custom"
	GroceryListMealPlan GroceryListType = "meal-plan"
)

// GroceryList is a shopping list header
type GroceryList struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      string              `bson:"user_id" json:"user_id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	MealPlanID  *primitive.ObjectID `bson:"meal_plan_id,omitempty" json:"meal_plan_id,omitempty"`
	Status      string              `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// GroceryItem is one line on a shopping list
type GroceryItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroceryListID primitive.ObjectID `bson:"grocery_list_id" json:"grocery_list_id"`
	Name          string             `bson:"name" json:"name"`
	Quantity      *float64           `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Unit          string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Category      string             `bson:"category" json:"category"`
	IsPurchased   bool               `bson:"is_purchased" json:"is_purchased"`
}

// GroceryListDetail is a list together with its items
type GroceryListDetail struct {
	GroceryList
	Items []GroceryItem `json:"items"`
}
