// Package grocery turns planned meals into store-section shopping lists.
package grocery

import "strings"

// Store section labels, in matching priority order
const (
	CategoryMeatSeafood = "Meat & Seafood"
	CategoryDairy       = "Dairy"
	CategoryProduce     = "Produce"
	CategoryBakery      = "Bakery"
	CategoryFrozen      = "Frozen"
	CategoryPantry      = "Pantry"
)

type section struct {
	label    string
	keywords []string
}

// order matters: "chicken broth" must land in Meat & Seafood
var sections = []section{
	{CategoryMeatSeafood, []string{"chicken", "beef", "fish", "salmon"}},
	{CategoryDairy, []string{"milk", "cheese", "yogurt", "butter"}},
	{CategoryProduce, []string{"apple", "banana", "tomato", "lettuce", "spinach"}},
	{CategoryBakery, []string{"bread", "bagel", "muffin"}},
	{CategoryFrozen, []string{"frozen"}},
}

// Categorize assigns an ingredient name to a store section.
// The first section with a keyword contained in the lower-cased name wins.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, s := range sections {
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				return s.label
			}
		}
	}
	return CategoryPantry
}

// Rank returns the position of a category in store order. Unknown labels sort last.
func Rank(category string) int {
	for i, s := range sections {
		if s.label == category {
			return i
		}
	}
	if category == CategoryPantry {
		return len(sections)
	}
	return len(sections) + 1
}
