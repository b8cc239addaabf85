package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the lspmode CLI. It wires up
// logging and the server provisioning subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lspmode",
		Short:   "Language server provisioning for editor LSP integration",
		Long:    "lspmode discovers, installs, and updates the language server binary an editor's LSP client spawns",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cfg := config.New()

			loggingCfg := logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				File:   cfg.Logging.File,
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				loggingCfg.Level = "debug"
				loggingCfg.Format = "console"
				loggingCfg.File = ""
			}

			logger = logging.ComponentLogger(logging.New(loggingCfg), "cli")
			ctx := logging.WithContext(cmd.Context(), logger)
			cmd.SetContext(ctx)

			logger.Debug().Str("command", cmd.Name()).Msg("command started")
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().
		String("server-dir", "", "custom server install directory (default: ~/.lspmode/servers)")
	cmd.AddCommand(newServerCmd())

	return cmd
}

const rootCmdExample = `  # Install the latest published language server
  lspmode server install

  # Install a specific version without prompting
  lspmode server install v1.37.10 --yes

  # Check for and install updates
  lspmode server update

  # List installed server versions
  lspmode server list

  # Print the runnable server binary path (installs on first use)
  lspmode server resolve`
