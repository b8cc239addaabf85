package cli

import (
	"github.com/spf13/cobra"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/launch"
)

// newServerResolveCmd creates the "server resolve" command: print the
// runnable server binary path, installing the latest published version on
// first use. This is the path an editor integration calls before spawning
// the LSP transport.
func newServerResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print a runnable server binary path, installing on first use",
		Example: `  # Resolve (and install when missing) the server binary
  lspmode server resolve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			interact := promptInteraction{out: cmd.OutOrStdout(), in: cmd.InOrStdin()}
			updater, root := newUpdater(cmd, cfg, interact)

			path, err := updater.ResolveOrInstall(cmd.Context(), progressPrinter(cmd))
			if err != nil {
				return err
			}

			bin, args, err := launch.Command(root)
			if err != nil {
				return err
			}

			logger.Debug().
				Str("binary", bin).
				Strs("args", args).
				Msg("server command resolved")

			cmd.Printf("%s\n", path)
			return nil
		},
	}
}
