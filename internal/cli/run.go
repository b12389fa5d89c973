package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inboxdot/inboxdot/internal/config"
	"github.com/inboxdot/inboxdot/internal/db"
	"github.com/inboxdot/inboxdot/internal/logging"
	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/scan"
	"github.com/inboxdot/inboxdot/internal/store"
)

func newRunCmd(configRef func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the snapshot and keep follow-up markers current",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configRef()
			if cfg.Page.Snapshot == "" {
				return fmt.Errorf("page.snapshot is required (set it in the config file or INBOXDOT_PAGE_SNAPSHOT)")
			}

			logger := logging.Component("run")

			if err := cfg.EnsureDirectories(); err != nil {
				logger.Warn().Err(err).Msg("failed to create directories")
			}

			database, err := db.Open(cfg.DatabasePath(), db.Options{BusyTimeoutMs: cfg.Database.BusyTimeoutMs})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			verdicts := store.New(db.NewKVRepository(database))
			source := &page.FileSource{
				Path:          cfg.Page.Snapshot,
				Output:        cfg.Page.Output,
				Location:      cfg.Page.Location,
				SectionPrefix: cfg.Page.SectionPrefix,
			}

			watcher, err := page.WatchFile(cfg.Page.Snapshot)
			if err != nil {
				return fmt.Errorf("watch snapshot: %w", err)
			}
			defer watcher.Close()

			scanner := scan.NewScanner(scan.Config{
				Debounce:      cfg.Scan.Debounce,
				Interval:      cfg.Scan.Interval,
				SectionPrefix: cfg.Page.SectionPrefix,
				ThresholdDays: cfg.FollowUpAfterDays,
			}, source, verdicts, scan.WithChangeFeed(watcher.Changes()))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := scanner.Start(ctx); err != nil {
				return fmt.Errorf("start scanner: %w", err)
			}

			logger.Info().
				Str("snapshot", cfg.Page.Snapshot).
				Int("threshold_days", cfg.FollowUpAfterDays).
				Msg("inboxdot running")

			<-ctx.Done()
			return scanner.Stop()
		},
	}

	return cmd
}
