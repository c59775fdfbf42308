package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/bradykim7/nutriplan/internal/service"
)

const maxRecipeResults = 5

// RecipeCommand searches recipes by title
type RecipeCommand struct {
	planner Planner
}

// NewRecipeCommand creates the recipe command
func NewRecipeCommand(planner Planner) *RecipeCommand {
	return &RecipeCommand{planner: planner}
}

func (c *RecipeCommand) Name() string { return "recipe" }

func (c *RecipeCommand) Help() string { return "recipe <search terms>" }

func (c *RecipeCommand) Execute(ctx context.Context, req Request) (*Reply, error) {
	if len(req.Args) == 0 {
		return nil, ErrUsage
	}
	query := strings.Join(req.Args, " ")

	list, err := c.planner.SearchRecipes(ctx, service.CandidateQuery{Query: query})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return &Reply{Content: fmt.Sprintf("No recipes found for **%s**.", query)}, nil
	}

	fields := make([]*discordgo.MessageEmbedField, 0, maxRecipeResults)
	for _, r := range list[:min(len(list), maxRecipeResults)] {
		details := []string{kcal(r.Nutrition.Calories), fmt.Sprintf("serves %d", r.BaseServings)}
		if r.Difficulty != "" {
			details = append(details, r.Difficulty)
		}
		if r.Category != "" {
			details = append(details, r.Category)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  r.Title,
			Value: strings.Join(details, " · ") + "\n`" + r.ID + "`",
		})
	}

	return &Reply{Embed: &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Recipes for \"%s\"", query),
		Description: fmt.Sprintf("Showing %d of %d", len(fields), len(list)),
		Color:       0x00AA88,
		Fields:      fields,
		Footer:      footer(req),
	}}, nil
}
