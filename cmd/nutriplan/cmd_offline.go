package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/bradykim7/nutriplan/internal/mealplan"
	"github.com/bradykim7/nutriplan/internal/models"
	"github.com/bradykim7/nutriplan/internal/nutrition"
	"github.com/bradykim7/nutriplan/internal/recipes"
)

var (
	goalsAge     int
	goalsHeight  float64
	goalsWeight  float64
	goalsSex     string
	goalsLevel   string
	goalsGoal    string

	planDays     int
	planMeals    int
	planServings int
)

// goalsCmd computes targets without a database
var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Compute daily targets for a profile",
	Example: `  nutriplan goals --age 30 --sex male --height 175 --weight 80 --activity moderate --goal lose_weight`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var p models.Profile
		if cmd.Flags().Changed("age") {
			p.Age = &goalsAge
		}
		if cmd.Flags().Changed("height") {
			p.HeightCm = &goalsHeight
		}
		if cmd.Flags().Changed("weight") {
			p.WeightKg = &goalsWeight
		}
		p.Sex = models.Sex(goalsSex)
		p.ActivityLevel = models.ActivityLevel(goalsLevel)
		p.Goal = models.Goal(goalsGoal)
		p.Normalize()

		targets, err := nutrition.ComputeTargets(p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), targets)
	},
}

// planCmd assembles a plan from the built-in recipes
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assemble a plan from the built-in recipes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		spec := mealplan.Spec{DurationDays: planDays, MealsPerDay: planMeals}
		if cmd.Flags().Changed("servings") {
			spec.RequestedServings = &planServings
		}

		plan, err := mealplan.Assemble(recipes.Fallback().All(), spec)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), plan)
	},
}

func init() {
	f := goalsCmd.Flags()
	f.IntVar(&goalsAge, "age", 0, "age in years")
	f.StringVar(&goalsSex, "sex", "", "male or female")
	f.Float64Var(&goalsHeight, "height", 0, "height in cm")
	f.Float64Var(&goalsWeight, "weight", 0, "weight in kg")
	f.StringVar(&goalsLevel, "activity", "", "sedentary, light, moderate, active or very_active")
	f.StringVar(&goalsGoal, "goal", "maintain", "lose_weight, maintain, gain_weight or build_muscle")

	pf := planCmd.Flags()
	pf.IntVar(&planDays, "days", 7, "plan length in days")
	pf.IntVar(&planMeals, "meals", 3, "meals per day")
	pf.IntVar(&planServings, "servings", 0, "servings per meal (default: each recipe's own)")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
