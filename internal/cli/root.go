// Package cli implements the inboxdot command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/inboxdot/inboxdot/internal/config"
	"github.com/inboxdot/inboxdot/internal/logging"
)

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	var (
		configFile string
		logLevel   string
		logFormat  string
	)

	var cfg *config.Config

	cmd := &cobra.Command{
		Use:           "inboxdot",
		Short:         "Follow-up markers for inbox thread lists",
		Long:          "inboxdot infers which inbox conversations are owed a follow-up and decorates the thread list accordingly.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loader := config.NewLoader()
			if configFile != "" {
				loader.SetConfigFile(configFile)
			}

			loaded, err := loader.Load()
			if err != nil {
				return err
			}

			if logLevel != "" {
				loaded.Logging.Level = logLevel
			}
			if logFormat != "" {
				loaded.Logging.Format = logFormat
			}

			logging.Init(logging.Config{
				Level:        loaded.Logging.Level,
				Format:       loaded.Logging.Format,
				EnableCaller: loaded.Logging.EnableCaller,
			})

			if used := loader.ConfigFileUsed(); used != "" {
				logging.Debug().Str("config_file", used).Msg("loaded config file")
			}

			cfg = loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.config/inboxdot/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override logging format (json, console)")

	configRef := func() *config.Config { return cfg }

	cmd.AddCommand(
		newRunCmd(configRef),
		newScanCmd(configRef),
		newStatusCmd(configRef),
		newParseCmd(),
	)

	return cmd
}
