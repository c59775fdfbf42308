package grocery

import (
	"math"
	"sort"
	"strings"

	"github.com/bradykim7/nutriplan/internal/models"
)

type itemKey struct {
	name string
	unit string
}

// BuildItems merges the ingredients of every meal into one list of grocery
// items. Ingredients are merged by lower-cased name and unit. Amounts are
// summed; an item with no numeric amount at all keeps a nil quantity.
func BuildItems(ingredients []models.Ingredient) []models.GroceryItem {
	index := make(map[itemKey]int)
	var items []models.GroceryItem

	for _, ing := range ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		key := itemKey{strings.ToLower(name), strings.ToLower(strings.TrimSpace(ing.Unit))}

		i, ok := index[key]
		if !ok {
			i = len(items)
			index[key] = i
			items = append(items, models.GroceryItem{
				Name:     name,
				Unit:     strings.TrimSpace(ing.Unit),
				Category: Categorize(name),
			})
		}
		if ing.Amount != nil {
			sum := *ing.Amount
			if items[i].Quantity != nil {
				sum += *items[i].Quantity
			}
			sum = math.Round(sum*100) / 100
			items[i].Quantity = &sum
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := Rank(items[a].Category), Rank(items[b].Category)
		if ra != rb {
			return ra < rb
		}
		return strings.ToLower(items[a].Name) < strings.ToLower(items[b].Name)
	})
	return items
}

// FromMeals collects the ingredients of stored meals and builds the item list
func FromMeals(meals []models.Meal) []models.GroceryItem {
	var all []models.Ingredient
	for _, m := range meals {
		all = append(all, m.Ingredients...)
	}
	return BuildItems(all)
}

// FromPlan does the same for an assembled plan
func FromPlan(plan *models.AssembledMealPlan) []models.GroceryItem {
	var all []models.Ingredient
	for _, slot := range plan.Slots() {
		all = append(all, slot.Ingredients...)
	}
	return BuildItems(all)
}
