package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/provision"
)

const serverInstallLong = `Install a language server version under the install root.

With no argument the latest published version is installed. Already-installed
versions are verified and skipped without network activity; an interrupted
install resumes from the downloaded archive when one is present.`

const serverInstallExample = `  # Install the latest published version (asks for confirmation)
  lspmode server install

  # Install a specific version
  lspmode server install v1.37.10

  # Non-interactive install
  lspmode server install --yes

  # Discard a possibly-corrupt archive and download again
  lspmode server install v1.37.10 --force-redownload`

// newServerInstallCmd creates the "server install" command.
func newServerInstallCmd() *cobra.Command {
	var (
		forceRedownload bool
		assumeYes       bool
	)

	cmd := &cobra.Command{
		Use:     "install [version]",
		Short:   "Install a language server version",
		Long:    serverInstallLong,
		Example: serverInstallExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			interact := promptInteraction{
				out:       cmd.OutOrStdout(),
				in:        cmd.InOrStdin(),
				assumeYes: assumeYes,
			}
			root := resolveServerDir(cmd, cfg)

			target := ""
			if len(args) == 1 {
				target = args[0]
			}

			result, err := installTarget(cmd.Context(), root, cfg, target, provision.InstallOptions{
				RequireConfirmation: true,
				ForceRedownload:     forceRedownload,
			}, interact, progressPrinter(cmd))
			if err != nil {
				return err
			}

			switch {
			case result.Declined:
				cmd.Printf("Installation aborted.\n")
			case result.Skipped:
				cmd.Printf("Server %s already installed at %s\n", result.Version, result.Path)
			default:
				cmd.Printf("\n✓ Server installed successfully\n")
				cmd.Printf("  Version: %s\n", result.Version)
				cmd.Printf("  Path:    %s\n", result.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceRedownload, "force-redownload", false,
		"Delete an already-downloaded archive before fetching")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false,
		"Answer confirmation prompts with yes")

	return cmd
}

// installTarget installs the named version, resolving "" to the latest
// published version from the catalog.
func installTarget(
	ctx context.Context,
	root string,
	cfg *config.Config,
	target string,
	opts provision.InstallOptions,
	interact provision.Interaction,
	progress func(string),
) (*provision.InstallResult, error) {
	installer := provision.NewInstaller(root, cfg.ReleaseBaseURL, provision.CurrentPlatform(cfg.HostVersion))
	installer.Interact = interact

	if target == "" {
		catalog := provision.NewCatalogClient(cfg.CatalogURL)
		entries, err := catalog.FetchReleases(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving latest version: %w", err)
		}
		target = provision.Latest(provision.VersionTags(entries))
		if target == "" {
			return nil, errors.New("release catalog lists no versions")
		}
	}

	return installer.Install(ctx, target, opts, progress)
}
