package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxdot/inboxdot/internal/timetext"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <time-text>",
		Short: "Normalize a display time text and print the inferred age",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			age, ok := timetext.New().Normalize(args[0])
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%q: unknown\n", args[0])
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%q: %s (%.2f days)\n", args[0], age, age.Hours()/24)
			return nil
		},
	}
}
