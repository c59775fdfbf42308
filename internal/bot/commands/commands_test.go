package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/service"
)

type stubPlanner struct {
	assembled *models.AssembledMealPlan
	lastSpec  service.AssembleRequest
	recipes   []models.Recipe
	err       error
}

func (s *stubPlanner) ComputeGoals(p models.Profile) (models.NutritionTargets, error) {
	return nutrition.ComputeTargets(p)
}

func (s *stubPlanner) Assemble(_ context.Context, req service.AssembleRequest) (*models.AssembledMealPlan, error) {
	s.lastSpec = req
	return s.assembled, s.err
}

func (s *stubPlanner) SearchRecipes(context.Context, service.CandidateQuery) ([]models.Recipe, error) {
	return s.recipes, s.err
}

type recordingSender struct {
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (r *recordingSender) Send(_ string, content string) error {
	r.texts = append(r.texts, content)
	return nil
}

func (r *recordingSender) SendEmbed(_ string, embed *discordgo.MessageEmbed) error {
	r.embeds = append(r.embeds, embed)
	return nil
}

func newRegistry(t *testing.T, p Planner) *Registry {
	r := NewRegistry("!", zaptest.NewLogger(t))
	r.Register(NewPingCommand())
	r.Register(NewGoalsCommand(p))
	r.Register(NewPlanCommand(p))
	r.Register(NewRecipeCommand(p))
	r.Register(NewHelpCommand(r))
	return r
}

func fp(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	r := NewRegistry("!", zaptest.NewLogger(t))

	name, args, ok := r.Parse("!Plan 3  4 chicken")
	require.True(t, ok)
	assert.Equal(t, "plan", name)
	assert.Equal(t, []string{"3", "4", "chicken"}, args)

	_, _, ok = r.Parse("plan 3")
	assert.False(t, ok)
	_, _, ok = r.Parse("!   ")
	assert.False(t, ok)
}

func TestParseProfileArgs(t *testing.T) {
	p, err := ParseProfileArgs([]string{"age=30", "sex=male", "height=175", "weight_kg=80.5", "activity=very-active", "goal=weight-loss"})
	require.NoError(t, err)
	assert.Equal(t, 30, *p.Age)
	assert.Equal(t, 80.5, *p.WeightKg)
	assert.Equal(t, models.ActivityLevel("very-active"), p.ActivityLevel)

	_, err = ParseProfileArgs([]string{"age=old"})
	assert.ErrorIs(t, err, ErrUsage)
	_, err = ParseProfileArgs([]string{"shoe=42"})
	assert.ErrorIs(t, err, ErrUsage)
	_, err = ParseProfileArgs([]string{"age"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestParsePlanArgs(t *testing.T) {
	spec, category, err := parsePlanArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, spec.DurationDays)
	assert.Equal(t, 3, spec.MealsPerDay)
	assert.Empty(t, category)

	spec, category, err = parsePlanArgs([]string{"30", "4", "Sea", "food"})
	require.NoError(t, err)
	assert.Equal(t, maxPlanDays, spec.DurationDays)
	assert.Equal(t, 4, spec.MealsPerDay)
	assert.Equal(t, "Sea food", category)

	_, _, err = parsePlanArgs([]string{"0"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestGoalsCommand(t *testing.T) {
	r := newRegistry(t, &stubPlanner{})
	ctx := context.Background()

	reply, err := r.Dispatch(ctx, "!goals age=30 sex=male height=175 weight=80 activity=moderate", Request{AuthorName: "kim"})
	require.NoError(t, err)
	require.NotNil(t, reply.Embed)
	assert.Equal(t, "**2711 kcal** per day", reply.Embed.Description)
	assert.Equal(t, "203 g", reply.Embed.Fields[0].Value)
	assert.Equal(t, "Requested by kim", reply.Embed.Footer.Text)

	reply, err = r.Dispatch(ctx, "!goals age=30 sex=male", Request{})
	require.NoError(t, err)
	assert.Equal(t, "Missing or invalid: height_cm, weight_kg, activity_level", reply.Content)

	reply, err = r.Dispatch(ctx, "!goals", Request{})
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Usage: `!goals age=30")
}

func TestPlanCommand(t *testing.T) {
	stub := &stubPlanner{assembled: &models.AssembledMealPlan{Days: []models.PlanDay{{
		DayNumber: 1,
		Meals: []models.MealSlot{
			{MealType: models.MealTypeBreakfast, Title: "Oats", Nutrition: models.Nutrition{Calories: fp(350)}},
			{MealType: models.MealTypeLunch, Title: "Soup"},
		},
		Totals: models.Nutrition{Calories: fp(350)},
	}, {DayNumber: 2}}}}
	r := newRegistry(t, stub)

	reply, err := r.Dispatch(context.Background(), "!plan 2 2 Chicken", Request{})
	require.NoError(t, err)
	assert.Equal(t, 2, stub.lastSpec.DurationDays)
	assert.Equal(t, "Chicken", stub.lastSpec.Category)
	assert.Equal(t, "2-day meal plan", reply.Embed.Title)
	assert.Equal(t, "Breakfast", reply.Embed.Fields[0].Name)
	assert.Equal(t, "Oats (350 kcal)", reply.Embed.Fields[0].Value)
	assert.Equal(t, "Soup (? kcal)", reply.Embed.Fields[1].Value)
}

func TestRecipeCommand(t *testing.T) {
	stub := &stubPlanner{}
	r := newRegistry(t, stub)
	ctx := context.Background()

	reply, err := r.Dispatch(ctx, "!recipe tofu", Request{})
	require.NoError(t, err)
	assert.Equal(t, "No recipes found for **tofu**.", reply.Content)

	for i := 0; i < 7; i++ {
		stub.recipes = append(stub.recipes, models.Recipe{ID: "r", Title: "Tofu", BaseServings: 2, Difficulty: "easy"})
	}
	reply, err = r.Dispatch(ctx, "!recipe tofu bowl", Request{})
	require.NoError(t, err)
	assert.Equal(t, `Recipes for "tofu bowl"`, reply.Embed.Title)
	assert.Len(t, reply.Embed.Fields, maxRecipeResults)
	assert.Equal(t, "Showing 5 of 7", reply.Embed.Description)
}

func TestHandle(t *testing.T) {
	stub := &stubPlanner{err: errors.New("boom")}
	r := newRegistry(t, stub)
	sender := &recordingSender{}
	msg := func(content string) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			Content:   content,
			ChannelID: "c1",
			Author:    &discordgo.User{ID: "u1", Username: "kim"},
		}}
	}

	r.Handle(sender, msg("!ping"), 42*time.Millisecond)
	r.Handle(sender, msg("!recipe soup"), 0)
	r.Handle(sender, msg("!unknown"), 0)
	r.Handle(sender, msg("hello"), 0)
	r.Handle(sender, msg("!help"), 0)

	require.Len(t, sender.texts, 2)
	assert.Equal(t, "Pong! Latency: 42ms", sender.texts[0])
	assert.Equal(t, "Something went wrong while handling that command.", sender.texts[1])

	require.Len(t, sender.embeds, 1)
	assert.Equal(t, "`!goals age=30 sex=male height=175 weight=80 activity=moderate [goal=lose_weight]`\n`!help`\n`!ping`\n`!plan [days] [meals per day] [category]`\n`!recipe <search terms>`\n",
		sender.embeds[0].Description)
}
