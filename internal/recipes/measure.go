package recipes

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bradykim7/nutriplan/internal/models"
)

// leading number, decimal or simple fraction: "2", "1.5", "1/2", "1 / 3"
var leadingAmount = regexp.MustCompile(`^(\d+(?:\.\d+)?(?:\s*/\s*\d+)?)`)

// ParseMeasure splits a measure such as "1/2 cup" into an amount and a unit.
// Measures without a leading number ("to taste", "pinch") have a nil amount and
// keep the whole text as the unit.
func ParseMeasure(measure string) (*float64, string) {
	measure = strings.TrimSpace(measure)
	if measure == "" {
		return nil, ""
	}

	m := leadingAmount.FindString(measure)
	if m == "" {
		return nil, measure
	}

	amount, ok := parseNumber(m)
	if !ok {
		return nil, measure
	}
	return &amount, strings.TrimSpace(strings.TrimPrefix(measure, m))
}

func parseNumber(s string) (float64, bool) {
	num, den, isFraction := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	if !isFraction {
		return n, true
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// units recognised when a whole ingredient line is given as free text
var knownUnits = map[string]bool{
	"cup": true, "cups": true, "tbsp": true, "tsp": true, "tablespoon": true,
	"tablespoons": true, "teaspoon": true, "teaspoons": true, "g": true,
	"kg": true, "mg": true, "ml": true, "l": true, "oz": true, "lb": true,
	"lbs": true, "slice": true, "slices": true, "clove": true, "cloves": true,
	"can": true, "cans": true, "pinch": true, "handful": true, "bunch": true,
}

// ParseIngredientLine turns free text such as "2 slices whole grain bread" or
// "6oz chicken breast" into an ingredient. Lines without a leading amount become
// a bare name.
func ParseIngredientLine(line string) models.Ingredient {
	line = strings.TrimSpace(line)

	m := leadingAmount.FindString(line)
	if m == "" {
		return models.Ingredient{Name: line}
	}
	amount, ok := parseNumber(m)
	if !ok {
		return models.Ingredient{Name: line}
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, m))
	ing := models.Ingredient{Amount: &amount, Name: rest}

	word, tail, _ := strings.Cut(rest, " ")
	if knownUnits[strings.ToLower(word)] && strings.TrimSpace(tail) != "" {
		ing.Unit = word
		ing.Name = strings.TrimSpace(tail)
	}
	return ing
}
