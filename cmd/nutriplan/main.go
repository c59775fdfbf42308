package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "nutriplan",
	Short: "Nutrition targets and meal plans",
	Long: `nutriplan computes daily nutrition targets from a biometric profile and
assembles rotating meal plans from TheMealDB recipes.

Available subcommands:
  serve - Run the HTTP API
  goals - Compute daily targets for a profile
  plan  - Assemble a plan from the built-in recipes`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.AddCommand(serveCmd, goalsCmd, planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
