package main

import (
	"context"
	"fmt"

	"ledger-go/internal/app"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summaries of recent days",
}

var summaryNutritionCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Daily calories and macro split",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		endArg, _ := cmd.Flags().GetString("end")

		return withApp(cmd, "NutritionSummary", func(ctx context.Context, a *app.LedgerApp) error {
			end, err := parseDay(endArg, a.Now())
			if err != nil {
				return err
			}
			s, err := a.NutritionSummary(ctx, end, days)
			if err != nil {
				return err
			}
			printNutrition(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var summaryWorkoutsCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Daily activity and most frequent workout types",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		top, _ := cmd.Flags().GetInt("top")
		endArg, _ := cmd.Flags().GetString("end")

		return withApp(cmd, "WorkoutSummary", func(ctx context.Context, a *app.LedgerApp) error {
			end, err := parseDay(endArg, a.Now())
			if err != nil {
				return err
			}
			s, err := a.WorkoutSummary(ctx, end, days, top)
			if err != nil {
				return err
			}
			printWorkoutSummary(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

// catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the food catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [QUERY]",
	Short: "List catalog foods, optionally matching QUERY",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "ListCatalog", func(ctx context.Context, a *app.LedgerApp) error {
			cat := a.Catalog()
			foods := cat.List()
			if len(args) == 1 {
				foods = cat.Search(args[0])
			}

			out := cmd.OutOrStdout()
			if len(foods) == 0 {
				fmt.Fprintln(out, "No matching foods.")
				return nil
			}
			for _, f := range foods {
				fmt.Fprintf(out, "%-16s  %-24s  %4d kcal  P %5.1fg  C %5.1fg  F %5.1fg\n",
					f.Key, cat.Name(f.Key), f.Calories(), f.ProteinG, f.CarbsG, f.FatG)
			}
			return nil
		})
	},
}

func init() {
	summaryCmd.AddCommand(summaryNutritionCmd)
	summaryCmd.AddCommand(summaryWorkoutsCmd)
	for _, c := range []*cobra.Command{summaryNutritionCmd, summaryWorkoutsCmd} {
		c.Flags().IntP("days", "d", 7, "Number of days to summarize")
		c.Flags().String("end", "", "Last day of the period (YYYY-MM-DD, default today)")
	}
	summaryWorkoutsCmd.Flags().IntP("top", "n", 3, "Number of workout types to rank")

	catalogCmd.AddCommand(catalogListCmd)
}
