package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/service"
)

// Planner is the slice of the planner service the bot uses
type Planner interface {
	ComputeGoals(profile models.Profile) (models.NutritionTargets, error)
	Assemble(ctx context.Context, req service.AssembleRequest) (*models.AssembledMealPlan, error)
	SearchRecipes(ctx context.Context, q service.CandidateQuery) ([]models.Recipe, error)
}

// GoalsCommand computes daily targets from key=value arguments
type GoalsCommand struct {
	planner Planner
}

// NewGoalsCommand creates the goals command
func NewGoalsCommand(planner Planner) *GoalsCommand {
	return &GoalsCommand{planner: planner}
}

func (c *GoalsCommand) Name() string { return "goals" }

func (c *GoalsCommand) Help() string {
	return "goals age=30 sex=male height=175 weight=80 activity=moderate [goal=lose_weight]"
}

func (c *GoalsCommand) Execute(_ context.Context, req Request) (*Reply, error) {
	if len(req.Args) == 0 {
		return nil, ErrUsage
	}
	profile, err := ParseProfileArgs(req.Args)
	if err != nil {
		return nil, err
	}

	targets, err := c.planner.ComputeGoals(profile)
	var missing *nutrition.MissingInputError
	if errors.As(err, &missing) {
		return &Reply{Content: "Missing or invalid: " + strings.Join(missing.Fields, ", ")}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Reply{Embed: &discordgo.MessageEmbed{
		Title:       "Daily targets",
		Description: fmt.Sprintf("**%d kcal** per day", targets.DailyCalories),
		Color:       0xFF9900,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Protein", Value: fmt.Sprintf("%d g", targets.ProteinGrams), Inline: true},
			{Name: "Carbs", Value: fmt.Sprintf("%d g", targets.CarbGrams), Inline: true},
			{Name: "Fat", Value: fmt.Sprintf("%d g", targets.FatGrams), Inline: true},
			{Name: "Fiber", Value: fmt.Sprintf("%d g", targets.FiberGrams), Inline: true},
			{Name: "Water", Value: fmt.Sprintf("%d ml", targets.WaterMilliliters), Inline: true},
		},
		Footer: footer(req),
	}}, nil
}

// ParseProfileArgs reads key=value pairs into a profile. Fields left out stay
// unset so the calculator can report them.
func ParseProfileArgs(args []string) (models.Profile, error) {
	var p models.Profile
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			return p, fmt.Errorf("%w: expected key=value, got %q", ErrUsage, arg)
		}

		switch strings.ToLower(key) {
		case "age":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("%w: age %q", ErrUsage, value)
			}
			p.Age = &n
		case "sex", "gender":
			p.Sex = models.Sex(value)
		case "height", "height_cm":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("%w: height %q", ErrUsage, value)
			}
			p.HeightCm = &f
		case "weight", "weight_kg":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return p, fmt.Errorf("%w: weight %q", ErrUsage, value)
			}
			p.WeightKg = &f
		case "activity", "activity_level":
			p.ActivityLevel = models.ActivityLevel(value)
		case "goal":
			p.Goal = models.Goal(value)
		default:
			return p, fmt.Errorf("%w: unknown key %q", ErrUsage, key)
		}
	}
	return p, nil
}
