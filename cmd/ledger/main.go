package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"ledger-go/internal/app"
	"ledger-go/internal/config"
	"ledger-go/internal/ledger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// reportError prints err for the user. Validation failures are listed one field per line.
func reportError(w io.Writer, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(w, "Invalid %s:\n", strings.ToLower(string(verr.Kind)))
		for _, f := range verr.Fields {
			fmt.Fprintf(w, "  %s: %s (got %v)\n", f.Field, f.Constraint, f.Value)
		}
	case errors.Is(err, ledger.ErrProfileExists):
		fmt.Fprintln(w, "Error: a profile already exists; use 'ledger profile set' to change it")
	case errors.Is(err, ledger.ErrStoreUnavailable):
		fmt.Fprintf(w, "Error: store not ready: %v\n", err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// newApp reads the config and creates a LedgerApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "AddMeal", "NutritionSummary").
func newApp(ctx context.Context, operation string) (*app.LedgerApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewLedgerApp(ctx, cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// withApp runs fn against a freshly created app and records a failure on its operation.
func withApp(cmd *cobra.Command, operation string, fn func(ctx context.Context, a *app.LedgerApp) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, operation)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		a.Operation().Fail()
		return err
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Personal nutrition and activity ledger",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if tz, _ := cmd.Flags().GetString("timezone"); tz != "" {
			cfg.Timezone = tz
			if _, err := cfg.Location(); err != nil {
				return err
			}
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(out, "Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", defaults["config_path"])
		fmt.Fprintf(out, "Base Dir:      %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Log Dir:       %s\n", cfg.LogDir)
		fmt.Fprintf(out, "Log Level:     %s\n", cfg.Log.Level)
		fmt.Fprintf(out, "Timezone:      %s\n", valueOr(cfg.Timezone, "(system)"))
		fmt.Fprintf(out, "Ready Timeout: %s\n", cfg.StoreReadyTimeout())
		fmt.Fprintf(out, "Database:      %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Fprintf(out, "Catalog:       %s (%s)\n", valueOr(cfg.Catalog.Path, "(built-in)"), valueOr(cfg.Catalog.Language, "en"))
		fmt.Fprintf(out, "Encrypt Snaps: %t\n", cfg.Snapshot.Encrypt)
		return nil
	},
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("timezone", "", "IANA time zone for calendar days (default: system zone)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(mealCmd)
	rootCmd.AddCommand(workoutCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(snapshotCmd)
}
