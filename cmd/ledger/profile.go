package main

import (
	"context"
	"fmt"

	"ledger-go/internal/app"
	"ledger-go/internal/ledger"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "GetProfile", func(ctx context.Context, a *app.LedgerApp) error {
			p, err := a.Profile(ctx)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile yet. Create one with 'ledger profile set'.")
				return nil
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update your profile",
	Long: `Create or update your profile. Only the given flags are changed.

Targets: lose_weight, gain_weight, stay_fit
Genders: male, female, other
Activity levels: low, medium, high
Diets: none, vegan, vegetarian, keto, paleo, gluten_free`,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := profilePatchFromFlags(cmd)
		return withApp(cmd, "SaveProfile", func(ctx context.Context, a *app.LedgerApp) error {
			p, err := a.SaveProfile(ctx, patch)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), p)

			goal, err := a.CalorieGoal(ctx)
			if err != nil {
				return err
			}
			if goal > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDaily calorie goal: %d kcal\n", goal)
			}
			return nil
		})
	},
}

// profilePatchFromFlags builds a patch from the flags that were given.
// Values are passed through unchecked; the record store validates them.
func profilePatchFromFlags(cmd *cobra.Command) ledger.ProfilePatch {
	f := cmd.Flags()
	var patch ledger.ProfilePatch
	if f.Changed("name") {
		v, _ := f.GetString("name")
		patch.Name = &v
	}
	if f.Changed("target") {
		v, _ := f.GetString("target")
		t := ledger.FitnessTarget(v)
		patch.Target = &t
	}
	if f.Changed("age") {
		v, _ := f.GetInt("age")
		patch.Age = &v
	}
	if f.Changed("gender") {
		v, _ := f.GetString("gender")
		g := ledger.Gender(v)
		patch.Gender = &g
	}
	if f.Changed("weight") {
		v, _ := f.GetFloat64("weight")
		patch.WeightKg = &v
	}
	if f.Changed("height") {
		v, _ := f.GetFloat64("height")
		patch.HeightCm = &v
	}
	if f.Changed("activity") {
		v, _ := f.GetString("activity")
		l := ledger.ActivityLevel(v)
		patch.ActivityLevel = &l
	}
	if f.Changed("diet") {
		v, _ := f.GetString("diet")
		d := ledger.DietaryPreference(v)
		patch.DietaryPreference = &d
	}
	return patch
}

var profileGoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show your daily calorie goal and how it is derived",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "CalorieGoal", func(ctx context.Context, a *app.LedgerApp) error {
			b, ok, err := a.GoalBreakdown(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "Calorie goal not available: age, gender, weight, height, activity level and target are all required.")
				return nil
			}
			fmt.Fprintf(out, "BMR:        %.0f kcal\n", b.BMR)
			fmt.Fprintf(out, "TDEE:       %.0f kcal\n", b.TDEE)
			fmt.Fprintf(out, "Adjustment: %+d kcal\n", b.Adjustment)
			fmt.Fprintf(out, "Goal:       %d kcal/day\n", b.Goal)
			return nil
		})
	},
}

func init() {
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileGoalCmd)

	f := profileSetCmd.Flags()
	f.String("name", "", "Your name")
	f.String("target", "", "Fitness target")
	f.Int("age", 0, "Age in years")
	f.String("gender", "", "Gender")
	f.Float64("weight", 0, "Weight in kg")
	f.Float64("height", 0, "Height in cm")
	f.String("activity", "", "Activity level")
	f.String("diet", "", "Dietary preference")
}
