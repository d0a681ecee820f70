// Package cli provides the graphrel command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/graphrel/internal/cli/commands"
	"github.com/meikuraledutech/graphrel/internal/config"
	"github.com/meikuraledutech/graphrel/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "graphrel",
		Short: "graphrel - named relationships between graph nodes",
		Long: `graphrel serves a small graph store over HTTP and creates named,
directed relationships between its nodes.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cmd.SetContext(commands.WithRuntime(cmd.Context(), &commands.Runtime{
				Config: cfg,
				Logger: logger,
			}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./graphrel.yaml)")
	pf.String("host", "", "graph store base URL")
	pf.Duration("error-message-timeout", 0, "how long error notices stay visible")
	pf.Duration("request-timeout", 0, "create request timeout")
	pf.String("listen", "", "address the server binds")
	pf.String("database-url", "", "postgres connection string (empty for in-memory)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (console|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewConnectCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
