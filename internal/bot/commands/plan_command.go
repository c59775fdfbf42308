package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bradykim7/nutriplan/internal/mealplan"
	"github.com/bradykim7/nutriplan/internal/service"
)

const maxPlanDays = 7

// PlanCommand assembles a short plan and shows the daily rotation
type PlanCommand struct {
	planner Planner
}

// NewPlanCommand creates the plan command
func NewPlanCommand(planner Planner) *PlanCommand {
	return &PlanCommand{planner: planner}
}

func (c *PlanCommand) Name() string { return "plan" }

func (c *PlanCommand) Help() string { return "plan [days] [meals per day] [category]" }

func (c *PlanCommand) Execute(ctx context.Context, req Request) (*Reply, error) {
	spec, category, err := parsePlanArgs(req.Args)
	if err != nil {
		return nil, err
	}

	plan, err := c.planner.Assemble(ctx, service.AssembleRequest{
		Spec:           spec,
		CandidateQuery: service.CandidateQuery{Category: category},
	})
	if err != nil {
		return nil, err
	}

	day := plan.Days[0]
	fields := make([]*discordgo.MessageEmbedField, 0, len(day.Meals))
	for _, slot := range day.Meals {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  titleCase(string(slot.MealType)),
			Value: fmt.Sprintf("%s (%s)", slot.Title, kcal(slot.Nutrition.Calories)),
		})
	}

	return &Reply{Embed: &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%d-day meal plan", len(plan.Days)),
		Description: fmt.Sprintf("The same %d meals repeat every day. Daily total: **%s**",
			len(day.Meals), kcal(day.Totals.Calories)),
		Color:  0x3366FF,
		Fields: fields,
		Footer: footer(req),
	}}, nil
}

func parsePlanArgs(args []string) (mealplan.Spec, string, error) {
	spec := mealplan.Spec{DurationDays: 1, MealsPerDay: 3}
	var rest []string
	numbers := 0
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || numbers == 2 {
			rest = append(rest, arg)
			continue
		}
		if n <= 0 {
			return spec, "", fmt.Errorf("%w: %d is not positive", ErrUsage, n)
		}
		if numbers == 0 {
			spec.DurationDays = min(n, maxPlanDays)
		} else {
			spec.MealsPerDay = n
		}
		numbers++
	}
	return spec, strings.Join(rest, " "), nil
}

func kcal(v *float64) string {
	if v == nil {
		return "? kcal"
	}
	return fmt.Sprintf("%.0f kcal", *v)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

