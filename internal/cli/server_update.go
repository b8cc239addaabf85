package cli

import (
	"github.com/spf13/cobra"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/provision"
)

// newServerUpdateCmd creates the "server update" command: compare latest
// installed against latest available and install when behind.
func newServerUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check for and install server updates",
		Example: `  # Compare installed vs published and update when behind
  lspmode server update`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			interact := promptInteraction{out: cmd.OutOrStdout(), in: cmd.InOrStdin()}
			updater, _ := newUpdater(cmd, cfg, interact)

			result, err := updater.CheckAndUpdate(cmd.Context(), progressPrinter(cmd))
			if err != nil {
				return err
			}

			switch result.Status {
			case provision.StatusUpToDate:
				cmd.Printf("Server %s is up to date\n", result.Installed)
			case provision.StatusFirstInstall:
				cmd.Printf("\n✓ Installed server %s\n", result.Available)
			case provision.StatusUpdated:
				cmd.Printf("\n✓ Updated server %s → %s\n", result.Installed, result.Available)
			}
			if result.Path != "" {
				cmd.Printf("  Path: %s\n", result.Path)
			}
			return nil
		},
	}
}
