package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pesapeak/pesapeak/internal/buildinfo"
	"github.com/pesapeak/pesapeak/internal/config"
	"github.com/pesapeak/pesapeak/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pesapeak",
		Short:   "Bank statement import for personal finances",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogger(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAccountsCommand())

	return rootCmd
}

// configureLogger stores a logger in the command context. Flags given on the
// command line win over the data directory's config.
func configureLogger(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	format, _ := flags.GetString("log-format")
	if cfg != nil {
		if !flags.Changed("log-level") && cfg.Log.Level != "" {
			level = cfg.Log.Level
		}
		if !flags.Changed("log-format") && cfg.Log.Format != "" {
			format = cfg.Log.Format
		}
	}

	log, err := logger.New(level, format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}
