package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bradykim7/nutriplan/internal/models"
)

// default when a page publishes no yield
const importedServings = 4

var (
	firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
	isoDuration = regexp.MustCompile(`^P(?:\d+D)?T?(?:(\d+)H)?(?:(\d+)M)?`)
)

// PageImporter scrapes a schema.org Recipe from an arbitrary web page.
// JSON-LD is preferred; microdata is used when no JSON-LD recipe is present.
type PageImporter struct {
	fetcher *fetcher
	log     *zap.Logger
}

// NewPageImporter creates an importer. A nil httpClient gets the default timeout.
func NewPageImporter(httpClient *http.Client, log *zap.Logger) *PageImporter {
	log = log.Named("page-importer")
	return &PageImporter{
		fetcher: newFetcher(httpClient, log),
		log:     log,
	}
}

// Import fetches pageURL and extracts its recipe
func (p *PageImporter) Import(ctx context.Context, pageURL string) (*models.Recipe, error) {
	content, err := p.fetcher.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe page: %w", err)
	}

	recipe, err := ParseRecipePage(content, pageURL)
	if err != nil {
		return nil, err
	}

	p.log.Info("Imported recipe",
		zap.String("url", pageURL),
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(recipe.Ingredients)))
	return recipe, nil
}

// ParseRecipePage extracts a recipe from HTML. The recipe id is derived from
// pageURL so re-importing a page updates the same record.
func ParseRecipePage(content []byte, pageURL string) (*models.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var recipe *models.Recipe
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if ld := findLDRecipe([]byte(s.Text())); ld != nil {
			recipe = ld.toRecipe()
			return false
		}
		return true
	})

	if recipe == nil {
		recipe = parseMicrodata(doc)
	}
	if recipe == nil || recipe.Title == "" {
		return nil, fmt.Errorf("%w: no schema.org recipe on %s", ErrRecipeNotFound, pageURL)
	}

	recipe.ID = "import-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL)).String()
	recipe.SourceURL = pageURL
	recipe.Difficulty = Difficulty(len(recipe.Ingredients), len(recipe.Instructions))
	recipe.FetchedAt = time.Now()
	return recipe, nil
}

type ldRecipe struct {
	Type         any             `json:"@type"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        json.RawMessage `json:"image"`
	Yield        json.RawMessage `json:"recipeYield"`
	Ingredients  []string        `json:"recipeIngredient"`
	Instructions json.RawMessage `json:"recipeInstructions"`
	Category     json.RawMessage `json:"recipeCategory"`
	Cuisine      json.RawMessage `json:"recipeCuisine"`
	Keywords     json.RawMessage `json:"keywords"`
	PrepTime     string          `json:"prepTime"`
	CookTime     string          `json:"cookTime"`
	Nutrition    struct {
		Calories any `json:"calories"`
		Protein  any `json:"proteinContent"`
		Carbs    any `json:"carbohydrateContent"`
		Fat      any `json:"fatContent"`
		Fiber    any `json:"fiberContent"`
	} `json:"nutrition"`
}

// findLDRecipe accepts a single object, an array, or an @graph wrapper
func findLDRecipe(data []byte) *ldRecipe {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for _, item := range items {
			if r := findLDRecipe(item); r != nil {
				return r
			}
		}
		return nil
	}

	var graph struct {
		Graph []json.RawMessage `json:"@graph"`
	}
	if err := json.Unmarshal(data, &graph); err == nil && len(graph.Graph) > 0 {
		for _, item := range graph.Graph {
			if r := findLDRecipe(item); r != nil {
				return r
			}
		}
		return nil
	}

	var r ldRecipe
	if err := json.Unmarshal(data, &r); err != nil || !isRecipeType(r.Type) {
		return nil
	}
	return &r
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, e := range v {
			if s, _ := e.(string); s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func (r *ldRecipe) toRecipe() *models.Recipe {
	recipe := &models.Recipe{
		Title:        strings.TrimSpace(r.Name),
		Description:  strings.TrimSpace(r.Description),
		BaseServings: parseYield(stringsOf(r.Yield)),
		Instructions: instructionsOf(r.Instructions),
		ImageURL:     firstOf(imagesOf(r.Image)),
		Category:     firstOf(stringsOf(r.Category)),
		Cuisine:      firstOf(stringsOf(r.Cuisine)),
		PrepMinutes:  parseISODuration(r.PrepTime),
		CookMinutes:  parseISODuration(r.CookTime),
		Nutrition: models.Nutrition{
			Calories:     numberOf(r.Nutrition.Calories),
			ProteinGrams: numberOf(r.Nutrition.Protein),
			CarbGrams:    numberOf(r.Nutrition.Carbs),
			FatGrams:     numberOf(r.Nutrition.Fat),
			FiberGrams:   numberOf(r.Nutrition.Fiber),
		},
	}
	for _, line := range r.Ingredients {
		if line = strings.TrimSpace(line); line != "" {
			recipe.Ingredients = append(recipe.Ingredients, ParseIngredientLine(line))
		}
	}
	for _, kw := range stringsOf(r.Keywords) {
		for _, tag := range strings.Split(kw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				recipe.DietaryTags = append(recipe.DietaryTags, tag)
			}
		}
	}
	return recipe
}

func parseMicrodata(doc *goquery.Document) *models.Recipe {
	scope := doc.Find(`[itemtype*="schema.org/Recipe"]`).First()
	if scope.Length() == 0 {
		return nil
	}

	prop := func(name string) *goquery.Selection {
		return scope.Find(fmt.Sprintf(`[itemprop=%q]`, name))
	}
	text := func(s *goquery.Selection) string {
		if v, ok := s.Attr("content"); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(s.Text())
	}

	recipe := &models.Recipe{
		Title:        text(prop("name").First()),
		Description:  text(prop("description").First()),
		BaseServings: parseYield([]string{text(prop("recipeYield").First())}),
		Category:     text(prop("recipeCategory").First()),
		Cuisine:      text(prop("recipeCuisine").First()),
		PrepMinutes:  parseISODuration(text(prop("prepTime").First())),
		CookMinutes:  parseISODuration(text(prop("cookTime").First())),
	}
	if img, ok := prop("image").First().Attr("src"); ok {
		recipe.ImageURL = img
	}

	prop("recipeIngredient").AddSelection(prop("ingredients")).Each(func(_ int, s *goquery.Selection) {
		if line := text(s); line != "" {
			recipe.Ingredients = append(recipe.Ingredients, ParseIngredientLine(line))
		}
	})

	prop("recipeInstructions").Each(func(_ int, s *goquery.Selection) {
		if items := s.Find("li"); items.Length() > 0 {
			items.Each(func(_ int, li *goquery.Selection) {
				if step := strings.TrimSpace(li.Text()); step != "" {
					recipe.Instructions = append(recipe.Instructions, step)
				}
			})
			return
		}
		recipe.Instructions = append(recipe.Instructions, splitLines(text(s))...)
	})

	return recipe
}

// stringsOf decodes a value that may be a string or a list of strings
func stringsOf(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	var many []any
	if err := json.Unmarshal(raw, &many); err != nil {
		var num float64
		if err := json.Unmarshal(raw, &num); err == nil {
			return []string{strconv.FormatFloat(num, 'f', -1, 64)}
		}
		return nil
	}
	var out []string
	for _, v := range many {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	return out
}

// imagesOf accepts a URL, a list of URLs or ImageObjects
func imagesOf(raw json.RawMessage) []string {
	if urls := stringsOf(raw); len(urls) > 0 {
		return urls
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.URL != "" {
		return []string{obj.URL}
	}
	var objs []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &objs); err == nil {
		var out []string
		for _, o := range objs {
			if o.URL != "" {
				out = append(out, o.URL)
			}
		}
		return out
	}
	return nil
}

// instructionsOf accepts plain text, a list of strings, HowToSteps or HowToSections
func instructionsOf(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return splitLines(text)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	var steps []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			steps = append(steps, splitLines(s)...)
			continue
		}
		var step struct {
			Text    string          `json:"text"`
			Name    string          `json:"name"`
			Element json.RawMessage `json:"itemListElement"`
		}
		if err := json.Unmarshal(item, &step); err != nil {
			continue
		}
		switch {
		case len(step.Element) > 0:
			steps = append(steps, instructionsOf(step.Element)...)
		case strings.TrimSpace(step.Text) != "":
			steps = append(steps, strings.TrimSpace(step.Text))
		case strings.TrimSpace(step.Name) != "":
			steps = append(steps, strings.TrimSpace(step.Name))
		}
	}
	return steps
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func firstOf(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// numberOf reads "250 kcal", "12.5 g" or a bare number
func numberOf(v any) *float64 {
	var s string
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		s = t
	default:
		return nil
	}
	m := firstNumber.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseYield(values []string) int {
	for _, v := range values {
		if m := firstNumber.FindString(v); m != "" {
			if n, err := strconv.ParseFloat(m, 64); err == nil && n >= 1 {
				return int(n)
			}
		}
	}
	return importedServings
}

// parseISODuration converts "PT1H15M" to 75
func parseISODuration(s string) int {
	m := isoDuration.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}
