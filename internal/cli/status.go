package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/inboxdot/inboxdot/internal/config"
	"github.com/inboxdot/inboxdot/internal/db"
	"github.com/inboxdot/inboxdot/internal/store"
)

func newStatusCmd(configRef func() *config.Config) *cobra.Command {
	var dueOnly bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List stored follow-up verdicts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configRef()

			database, err := db.Open(cfg.DatabasePath(), db.Options{BusyTimeoutMs: cfg.Database.BusyTimeoutMs})
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			verdicts := store.New(db.NewKVRepository(database)).All()

			ids := make([]string, 0, len(verdicts))
			for id := range verdicts {
				if dueOnly && !verdicts[id].IsDue {
					continue
				}
				ids = append(ids, id)
			}
			sort.Strings(ids)

			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no verdicts stored")
				return nil
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				v := verdicts[id]
				due := "-"
				if v.IsDue {
					due = "due"
				}
				fromMe := "them"
				if v.FromMe {
					fromMe = "me"
				}
				rows = append(rows, []string{
					id,
					due,
					fromMe,
					v.Time,
					fmt.Sprintf("%.1f", v.AgeDays),
				})
			}

			return writeTable(cmd.OutOrStdout(),
				[]string{"CONVERSATION", "STATUS", "LAST FROM", "TIME", "AGE (DAYS)"},
				rows)
		},
	}

	cmd.Flags().BoolVar(&dueOnly, "due", false, "only show conversations that are due a follow-up")

	return cmd
}
