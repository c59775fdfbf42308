package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bradykim7/nutriplan/internal/models"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Chicken Breast", CategoryMeatSeafood},
		{"chicken broth", CategoryMeatSeafood},
		{"6oz salmon fillet", CategoryMeatSeafood},
		{"fish sauce", CategoryMeatSeafood},
		{"Whole Milk", CategoryDairy},
		{"buttermilk", CategoryDairy},
		{"peanut butter", CategoryDairy},
		{"Greek yogurt", CategoryDairy},
		{"cherry tomatoes", CategoryProduce},
		{"baby spinach", CategoryProduce},
		{"apple cider vinegar", CategoryProduce},
		{"whole grain bread", CategoryBakery},
		{"blueberry muffin", CategoryBakery},
		{"frozen peas", CategoryFrozen},
		{"frozen chicken wings", CategoryMeatSeafood},
		{"cheese bread", CategoryDairy},
		{"quinoa", CategoryPantry},
		{"", CategoryPantry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.name))
		})
	}
}

func TestRank(t *testing.T) {
	assert.Less(t, Rank(CategoryMeatSeafood), Rank(CategoryDairy))
	assert.Less(t, Rank(CategoryFrozen), Rank(CategoryPantry))
	assert.Less(t, Rank(CategoryPantry), Rank("Beverages"))
}

func amount(v float64) *float64 { return &v }

func TestBuildItems_MergesAndSorts(t *testing.T) {
	items := BuildItems([]models.Ingredient{
		{Name: "Quinoa", Amount: amount(1), Unit: "cup"},
		{Name: "chicken breast", Amount: amount(200), Unit: "g"},
		{Name: "Salt"},
		{Name: "quinoa", Amount: amount(0.5), Unit: "Cup"},
		{Name: "Chicken Breast", Amount: amount(150.25), Unit: "g"},
		{Name: "salt"},
		{Name: "Milk", Amount: amount(1), Unit: "cup"},
		{Name: "  "},
	})

	require.Len(t, items, 4)

	assert.Equal(t, "chicken breast", items[0].Name)
	assert.Equal(t, CategoryMeatSeafood, items[0].Category)
	assert.Equal(t, 350.25, *items[0].Quantity)

	assert.Equal(t, "Milk", items[1].Name)
	assert.Equal(t, CategoryDairy, items[1].Category)

	assert.Equal(t, "Quinoa", items[2].Name)
	assert.Equal(t, 1.5, *items[2].Quantity)
	assert.Equal(t, "cup", items[2].Unit)

	assert.Equal(t, "Salt", items[3].Name)
	assert.Nil(t, items[3].Quantity)
	assert.Equal(t, CategoryPantry, items[3].Category)

	for _, it := range items {
		assert.False(t, it.IsPurchased)
	}
}

func TestBuildItems_KeepsUnitsApart(t *testing.T) {
	items := BuildItems([]models.Ingredient{
		{Name: "butter", Amount: amount(2), Unit: "tbsp"},
		{Name: "butter", Amount: amount(100), Unit: "g"},
	})
	assert.Len(t, items, 2)
}

func TestFromPlan(t *testing.T) {
	slot := models.MealSlot{Ingredients: []models.Ingredient{{Name: "egg", Amount: amount(2)}}}
	plan := &models.AssembledMealPlan{Days: []models.PlanDay{
		{DayNumber: 1, Meals: []models.MealSlot{slot, slot}},
		{DayNumber: 2, Meals: []models.MealSlot{slot}},
	}}

	items := FromPlan(plan)
	require.Len(t, items, 1)
	assert.Equal(t, 6.0, *items[0].Quantity)

	meals := []models.Meal{{Ingredients: slot.Ingredients}, {Ingredients: slot.Ingredients}}
	items = FromMeals(meals)
	require.Len(t, items, 1)
	assert.Equal(t, 4.0, *items[0].Quantity)
}
