package main

import (
	"context"
	"fmt"
	"strconv"

	"ledger-go/internal/app"

	"github.com/spf13/cobra"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Keep a log of your body weight",
}

var weightLogCmd = &cobra.Command{
	Use:   "log KG",
	Short: "Record your weight",
	Long: `Record your weight in kg. The most recent entry also becomes the weight
on your profile, so the calorie goal follows it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", args[0])
		}
		at, _ := cmd.Flags().GetString("at")

		return withApp(cmd, "LogWeight", func(ctx context.Context, a *app.LedgerApp) error {
			recordedAt, err := parseTime(at, a.Now())
			if err != nil {
				return err
			}
			e, err := a.LogWeight(ctx, kg, recordedAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %.1f kg\n", e.ID, e.At.Format(timeFormat), e.WeightKg)
			return nil
		})
	},
}

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged weights, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "WeightHistory", func(ctx context.Context, a *app.LedgerApp) error {
			history, err := a.WeightHistory(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintln(out, "No weights logged.")
				return nil
			}
			for _, e := range history {
				fmt.Fprintf(out, "%s  %s  %.1f kg\n", e.ID, e.At.Format(timeFormat), e.WeightKg)
			}
			return nil
		})
	},
}

var weightRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a logged weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "DeleteWeight", func(ctx context.Context, a *app.LedgerApp) error {
			ok, err := confirm(cmd, fmt.Sprintf("Delete weight entry %s?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			deleted, err := a.DeleteWeight(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("no weight entry with id %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted weight entry %s\n", args[0])
			return nil
		})
	},
}

var summaryWeightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Recent weights and the change since the first entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetInt("last")
		target := optFloatFlag(cmd, "target")

		return withApp(cmd, "WeightSummary", func(ctx context.Context, a *app.LedgerApp) error {
			s, ok, err := a.WeightSummary(ctx, target, last)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No weight known yet. Record one with 'ledger weight log KG'.")
				return nil
			}
			printWeightSummary(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

func init() {
	weightCmd.AddCommand(weightLogCmd)
	weightCmd.AddCommand(weightListCmd)
	weightCmd.AddCommand(weightRmCmd)
	rootCmd.AddCommand(weightCmd)

	weightLogCmd.Flags().String("at", "", "When the weight was measured (default now)")
	weightRmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	summaryCmd.AddCommand(summaryWeightCmd)
	summaryWeightCmd.Flags().IntP("last", "n", 6, "Number of entries to show")
	summaryWeightCmd.Flags().Float64("target", 0, "Target weight in kg to include in the chart")
}
