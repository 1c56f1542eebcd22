package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/groundcrew/crewbot/crewbot/migration"
)

var (
	legacyPath     string
	legacyLocation string
	migrateDryRun  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "import a bot_data.json written by the old bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		loc, err := time.LoadLocation(legacyLocation)
		if err != nil {
			return fmt.Errorf("invalid --location: %w", err)
		}

		file, err := os.Open(legacyPath)
		if err != nil {
			return err
		}
		defer file.Close()

		doc, err := migration.Decode(file)
		if err != nil {
			return err
		}
		migrator := migration.NewMigrator(loc)

		var report migration.Report
		if migrateDryRun {
			_, report = migrator.Convert(doc)
		} else {
			store, backend, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			if report, err = migrator.Import(ctx, store, doc); err != nil {
				slog.Error("Migration failed", slog.String("type", "sys"), slog.Any("error", err))
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "communities: %d\nconfigs: %d\noperations: %d\nshifts: %d\ntotals: %d\nusernames: %d\n",
			report.Communities, report.Configs, report.Operations, report.Shifts, report.Totals, report.Usernames)
		for _, s := range report.Skipped {
			fmt.Fprintf(out, "skipped: %s\n", s)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&legacyPath, "legacy", "bot_data.json", "path to the legacy document")
	migrateCmd.Flags().StringVar(&legacyLocation, "location", "UTC", "time zone of timestamps without an offset")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "convert and report without writing")
	rootCmd.AddCommand(migrateCmd)
}
