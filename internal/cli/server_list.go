package cli

import (
	"github.com/spf13/cobra"

	"github.com/razzmatazz/lsp-mode/internal/config"
	"github.com/razzmatazz/lsp-mode/internal/provision"
)

// newServerListCmd creates the "server list" command showing installed
// versions under the install root, marking the one the editor will launch.
func newServerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			root := resolveServerDir(cmd, cfg)

			versions, err := provision.ListInstalled(root)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				cmd.Printf("No server versions installed under %s\n", root)
				return nil
			}

			latest := provision.Latest(versions)
			for _, v := range versions {
				marker := " "
				if v == latest {
					marker = "*"
				}
				verified := ""
				if !provision.BinaryExists(root, v) {
					verified = "  (binary missing)"
				}
				cmd.Printf("%s %s%s\n", marker, v, verified)
			}
			return nil
		},
	}
}
