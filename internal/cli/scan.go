package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxdot/inboxdot/internal/config"
	"github.com/inboxdot/inboxdot/internal/db"
	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/scan"
	"github.com/inboxdot/inboxdot/internal/store"
)

func newScanCmd(configRef func() *config.Config) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan over the snapshot and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configRef()

			path := snapshot
			if path == "" {
				path = cfg.Page.Snapshot
			}
			if path == "" {
				return fmt.Errorf("no snapshot given (pass --snapshot or set page.snapshot)")
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create directories: %w", err)
			}

			database, err := db.Open(cfg.DatabasePath(), db.Options{BusyTimeoutMs: cfg.Database.BusyTimeoutMs})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			verdicts := store.New(db.NewKVRepository(database))
			source := &page.FileSource{
				Path:          path,
				Output:        cfg.Page.Output,
				Location:      cfg.Page.Location,
				SectionPrefix: cfg.Page.SectionPrefix,
			}

			scanner := scan.NewScanner(scan.Config{
				Debounce:      cfg.Scan.Debounce,
				Interval:      cfg.Scan.Interval,
				SectionPrefix: cfg.Page.SectionPrefix,
				ThresholdDays: cfg.FollowUpAfterDays,
			}, source, verdicts)

			scanner.ScanNow()
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "snapshot HTML file (overrides page.snapshot)")

	return cmd
}
