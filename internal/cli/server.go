package cli

import (
	"github.com/spf13/cobra"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/provision"
)

// newServerCmd groups the server provisioning subcommands.
func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage language server installations",
	}
	cmd.AddCommand(
		newServerInstallCmd(),
		newServerUpdateCmd(),
		newServerListCmd(),
		newServerResolveCmd(),
	)
	return cmd
}

// resolveServerDir returns the effective install root: the --server-dir flag
// when set, the configured default otherwise.
func resolveServerDir(cmd *cobra.Command, cfg *config.Config) string {
	if dir, _ := cmd.Flags().GetString("server-dir"); dir != "" {
		return dir
	}
	return cfg.ServerDir
}

// newUpdater wires the provisioning collaborators for one CLI invocation.
func newUpdater(cmd *cobra.Command, cfg *config.Config, interact provision.Interaction) (*provision.Updater, string) {
	root := resolveServerDir(cmd, cfg)
	installer := provision.NewInstaller(root, cfg.ReleaseBaseURL, provision.CurrentPlatform(cfg.HostVersion))
	installer.Interact = interact
	catalog := provision.NewCatalogClient(cfg.CatalogURL)
	return provision.NewUpdater(root, catalog, installer), root
}

// progressPrinter returns a progress callback that writes through cmd.
func progressPrinter(cmd *cobra.Command) func(string) {
	return func(msg string) {
		cmd.Printf("%s\n", msg)
	}
}
