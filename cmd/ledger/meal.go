package main

import (
	"context"
	"fmt"

	"ledger-go/internal/app"
	"ledger-go/internal/ledger"

	"github.com/spf13/cobra"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and review meals",
}

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal",
	Long: `Log a meal. Without --calories, calories are computed from the macros
(4 kcal per gram of protein or carbs, 9 per gram of fat).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "AddMeal", func(ctx context.Context, a *app.LedgerApp) error {
			in, err := mealInputFromFlags(cmd, a)
			if err != nil {
				return err
			}
			m, err := a.AddMeal(ctx, in)
			if err != nil {
				return err
			}
			printMeal(cmd.OutOrStdout(), m, a.Catalog())
			return nil
		})
	},
}

func mealInputFromFlags(cmd *cobra.Command, a *app.LedgerApp) (ledger.MealInput, error) {
	f := cmd.Flags()
	key, _ := f.GetString("key")
	typ, _ := f.GetString("type")
	at, _ := f.GetString("at")

	mealType, err := parseMealType(typ)
	if err != nil {
		return ledger.MealInput{}, err
	}
	eatenAt, err := parseTime(at, a.Now())
	if err != nil {
		return ledger.MealInput{}, err
	}

	in := ledger.MealInput{Key: key, EatenAt: eatenAt, MealType: mealType}
	in.ProteinG = optFloatFlag(cmd, "protein")
	in.CarbsG = optFloatFlag(cmd, "carbs")
	in.FatG = optFloatFlag(cmd, "fat")
	if f.Changed("calories") {
		in.Calories, _ = f.GetInt("calories")
		return in, nil
	}
	return in.WithDerivedCalories(), nil
}

func optFloatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func optIntFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func optStringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

var mealQuickCmd = &cobra.Command{
	Use:   "quick FOOD",
	Short: "Log one serving of a catalog food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		at, _ := cmd.Flags().GetString("at")
		mealType, err := parseMealType(typ)
		if err != nil {
			return err
		}

		return withApp(cmd, "QuickAddMeal", func(ctx context.Context, a *app.LedgerApp) error {
			eatenAt, err := parseTime(at, a.Now())
			if err != nil {
				return err
			}
			m, err := a.QuickAdd(ctx, args[0], mealType, eatenAt)
			if err != nil {
				return err
			}
			printMeal(cmd.OutOrStdout(), m, a.Catalog())
			return nil
		})
	},
}

var mealEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "UpdateMeal", func(ctx context.Context, a *app.LedgerApp) error {
			patch := ledger.MealPatch{
				Key:      optStringFlag(cmd, "key"),
				Calories: optIntFlag(cmd, "calories"),
				ProteinG: optFloatFlag(cmd, "protein"),
				CarbsG:   optFloatFlag(cmd, "carbs"),
				FatG:     optFloatFlag(cmd, "fat"),
			}
			if typ := optStringFlag(cmd, "type"); typ != nil {
				mt, err := parseMealType(*typ)
				if err != nil {
					return err
				}
				patch.MealType = &mt
			}
			if at := optStringFlag(cmd, "at"); at != nil {
				t, err := parseTime(*at, a.Now())
				if err != nil {
					return err
				}
				if !t.IsZero() {
					patch.EatenAt = &t
				}
			}

			m, err := a.UpdateMeal(ctx, args[0], patch)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no meal with id %s", args[0])
			}
			printMeal(cmd.OutOrStdout(), m, a.Catalog())
			return nil
		})
	},
}

var mealRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "DeleteMeal", func(ctx context.Context, a *app.LedgerApp) error {
			m, err := a.GetMeal(ctx, args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no meal with id %s", args[0])
			}

			ok, err := confirm(cmd, fmt.Sprintf("Delete %s (%d kcal) from %s?", a.Catalog().Name(m.Key), m.Calories, m.EatenAt.Format(timeFormat)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if _, err := a.DeleteMeal(ctx, m.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %s\n", m.ID)
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "GetMeal", func(ctx context.Context, a *app.LedgerApp) error {
			m, err := a.GetMeal(ctx, args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no meal with id %s", args[0])
			}
			printMeal(cmd.OutOrStdout(), m, a.Catalog())
			return nil
		})
	},
}

var mealDayCmd = &cobra.Command{
	Use:   "day [DATE]",
	Short: "List the meals of one day (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "GetMealsForDay", func(ctx context.Context, a *app.LedgerApp) error {
			date, err := parseDay(firstArg(args), a.Now())
			if err != nil {
				return err
			}
			meals, err := a.MealsForDay(ctx, date)
			if err != nil {
				return err
			}
			goal, err := a.CalorieGoal(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(meals) == 0 {
				fmt.Fprintln(out, "No meals logged.")
			}
			total := 0
			for _, m := range meals {
				printMeal(out, m, a.Catalog())
				total += m.Calories
			}
			fmt.Fprintf(out, "\nTotal: %d kcal", total)
			if goal > 0 {
				fmt.Fprintf(out, " of %d (%d remaining)", goal, goal-total)
			}
			fmt.Fprintln(out)
			return nil
		})
	},
}

var mealRangeCmd = &cobra.Command{
	Use:   "range START END",
	Short: "List the meals from START through END",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "GetMealsInRange", func(ctx context.Context, a *app.LedgerApp) error {
			start, err := parseDay(args[0], a.Now())
			if err != nil {
				return err
			}
			end, err := parseDay(args[1], a.Now())
			if err != nil {
				return err
			}
			meals, err := a.MealsInRange(ctx, start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(meals) == 0 {
				fmt.Fprintln(out, "No meals logged.")
				return nil
			}
			for _, m := range meals {
				printMeal(out, m, a.Catalog())
			}
			return nil
		})
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealQuickCmd)
	mealCmd.AddCommand(mealEditCmd)
	mealCmd.AddCommand(mealRmCmd)
	mealCmd.AddCommand(mealShowCmd)
	mealCmd.AddCommand(mealDayCmd)
	mealCmd.AddCommand(mealRangeCmd)

	for _, c := range []*cobra.Command{mealAddCmd, mealEditCmd} {
		f := c.Flags()
		f.StringP("key", "k", "", "Food key or name")
		f.IntP("calories", "c", 0, "Calories (kcal)")
		f.Float64("protein", 0, "Protein in grams")
		f.Float64("carbs", 0, "Carbohydrates in grams")
		f.Float64("fat", 0, "Fat in grams")
		f.StringP("type", "t", "", "Meal type: breakfast, lunch, dinner or snack (default snack)")
		f.String("at", "", "When the meal was eaten: HH:MM, 'YYYY-MM-DD HH:MM' or RFC 3339 (default now)")
	}
	mealAddCmd.MarkFlagRequired("key")

	mealQuickCmd.Flags().StringP("type", "t", "", "Meal type: breakfast, lunch, dinner or snack (default snack)")
	mealQuickCmd.Flags().String("at", "", "When the meal was eaten (default now)")

	mealRmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
