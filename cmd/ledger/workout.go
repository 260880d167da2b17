package main

import (
	"context"
	"fmt"

	"ledger-go/internal/app"
	"ledger-go/internal/ledger"

	"github.com/spf13/cobra"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log and review workouts",
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout",
	Long: `Log a workout. Without --calories, calories burned are estimated from the
type and duration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		typ, _ := f.GetString("type")
		minutes, _ := f.GetInt("minutes")
		at, _ := f.GetString("at")

		return withApp(cmd, "AddWorkout", func(ctx context.Context, a *app.LedgerApp) error {
			performedAt, err := parseTime(at, a.Now())
			if err != nil {
				return err
			}
			in := ledger.WorkoutInput{
				Type:            typ,
				DurationMinutes: minutes,
				PerformedAt:     performedAt,
				Notes:           optStringFlag(cmd, "notes"),
			}
			if f.Changed("calories") {
				in.CaloriesBurned, _ = f.GetInt("calories")
			} else {
				in.CaloriesBurned = ledger.EstimateWorkoutCalories(typ, minutes)
			}

			w, err := a.AddWorkout(ctx, in)
			if err != nil {
				return err
			}
			printWorkout(cmd.OutOrStdout(), w)
			return nil
		})
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change a logged workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "UpdateWorkout", func(ctx context.Context, a *app.LedgerApp) error {
			patch := ledger.WorkoutPatch{
				Type:            optStringFlag(cmd, "type"),
				DurationMinutes: optIntFlag(cmd, "minutes"),
				CaloriesBurned:  optIntFlag(cmd, "calories"),
				Notes:           optStringFlag(cmd, "notes"),
			}
			if at := optStringFlag(cmd, "at"); at != nil {
				t, err := parseTime(*at, a.Now())
				if err != nil {
					return err
				}
				if !t.IsZero() {
					patch.PerformedAt = &t
				}
			}

			w, err := a.UpdateWorkout(ctx, args[0], patch)
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("no workout with id %s", args[0])
			}
			printWorkout(cmd.OutOrStdout(), w)
			return nil
		})
	},
}

var workoutRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a logged workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "DeleteWorkout", func(ctx context.Context, a *app.LedgerApp) error {
			w, err := a.GetWorkout(ctx, args[0])
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("no workout with id %s", args[0])
			}

			ok, err := confirm(cmd, fmt.Sprintf("Delete %s (%d min) from %s?", w.Type, w.DurationMinutes, w.PerformedAt.Format(timeFormat)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if _, err := a.DeleteWorkout(ctx, w.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted workout %s\n", w.ID)
			return nil
		})
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a logged workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "GetWorkout", func(ctx context.Context, a *app.LedgerApp) error {
			w, err := a.GetWorkout(ctx, args[0])
			if err != nil {
				return err
			}
			if w == nil {
				return fmt.Errorf("no workout with id %s", args[0])
			}
			printWorkout(cmd.OutOrStdout(), w)
			return nil
		})
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workouts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		return withApp(cmd, "GetWorkouts", func(ctx context.Context, a *app.LedgerApp) error {
			var workouts []*ledger.WorkoutRecord
			var err error
			if from == "" && to == "" {
				workouts, err = a.Workouts(ctx)
			} else {
				start, perr := parseDay(from, a.Now())
				if perr != nil {
					return perr
				}
				end, perr := parseDay(to, a.Now())
				if perr != nil {
					return perr
				}
				workouts, err = a.WorkoutsInRange(ctx, start, end)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(workouts) == 0 {
				fmt.Fprintln(out, "No workouts logged.")
				return nil
			}
			for _, w := range workouts {
				printWorkout(out, w)
			}
			return nil
		})
	},
}

func init() {
	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutRmCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutListCmd)

	for _, c := range []*cobra.Command{workoutAddCmd, workoutEditCmd} {
		f := c.Flags()
		f.StringP("type", "t", "", "Workout type, e.g. running, cycling, yoga")
		f.IntP("minutes", "m", 0, "Duration in minutes")
		f.IntP("calories", "c", 0, "Calories burned (default: estimated)")
		f.String("at", "", "When the workout took place (default now)")
		f.String("notes", "", "Free-form notes")
	}
	workoutAddCmd.MarkFlagRequired("type")
	workoutAddCmd.MarkFlagRequired("minutes")

	workoutRmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	workoutListCmd.Flags().String("from", "", "First day to include (YYYY-MM-DD)")
	workoutListCmd.Flags().String("to", "", "Last day to include (YYYY-MM-DD, default today)")
}
