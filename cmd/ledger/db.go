package main

import (
	"context"
	"fmt"
	"os"

	"ledger-go/internal/app"
	"ledger-go/internal/encryption"
	"ledger-go/internal/store/migrations"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the database",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the database location and schema status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "DatabaseStatus", func(ctx context.Context, a *app.LedgerApp) error {
			path, err := a.StorePath()
			if err != nil {
				return err
			}
			latest, err := migrations.LatestVersion()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", path)
			if err := a.CheckStore(); err != nil {
				fmt.Fprintf(out, "Schema:   %v\n", err)
				return err
			}
			fmt.Fprintf(out, "Schema:   up to date (version %d)\n", latest)
			return nil
		})
	},
}

var dbSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "DumpSchema", func(ctx context.Context, a *app.LedgerApp) error {
			schema, err := a.Schema(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), schema)
			return nil
		})
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and import database snapshots",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write a snapshot of the database to FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, "ExportSnapshot", func(ctx context.Context, a *app.LedgerApp) error {
			var passphrase string
			if a.Config().Snapshot.Encrypt {
				var err error
				if passphrase, err = readPassphrase(cmd, true); err != nil {
					return err
				}
			}
			if err := a.ExportSnapshot(ctx, args[0], passphrase); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", args[0])
			return nil
		})
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the database with the snapshot in FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypted, err := snapshotEncrypted(args[0])
		if err != nil {
			return err
		}

		return withApp(cmd, "ImportSnapshot", func(ctx context.Context, a *app.LedgerApp) error {
			ok, err := confirm(cmd, "Replace all records with the snapshot?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			var passphrase string
			if encrypted {
				if passphrase, err = readPassphrase(cmd, false); err != nil {
					return err
				}
			}
			if err := a.ImportSnapshot(ctx, args[0], passphrase); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot imported from %s\n", args[0])
			return nil
		})
	},
}

func snapshotEncrypted(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	encrypted, _, err := encryption.IsEncrypted(f)
	return encrypted, err
}

func init() {
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbSchemaCmd)

	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotImportCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
