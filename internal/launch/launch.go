// Package launch is the seam between the provisioning engine and the LSP
// transport layer. The transport consumes a spawn command and a viability
// probe; everything about how the binary got onto disk stays behind this
// package.
package launch

import (
	"fmt"

	"github.com/razzmatazz/lsp-mode/internal/provision"
)

// languageServerFlag puts the server into stdio LSP mode.
const languageServerFlag = "--languageserver"

// Command resolves the executable path and argument list used to spawn the
// language server from the latest verified install under root. It does not
// trigger installation; callers wanting install-on-demand go through
// Updater.ResolveOrInstall first.
func Command(root string) (string, []string, error) {
	version := provision.LatestInstalled(root)
	if version == "" {
		return "", nil, fmt.Errorf("%w: nothing installed under %s",
			provision.ErrServerUnavailable, root)
	}
	if !provision.BinaryExists(root, version) {
		return "", nil, fmt.Errorf("%w: expected %s",
			provision.ErrServerUnavailable, provision.BinaryPath(root, version))
	}
	return provision.BinaryPath(root, version), []string{languageServerFlag}, nil
}

// Available reports whether a runnable server binary currently exists under
// root. The transport layer calls this before attempting to spawn.
func Available(root string) bool {
	version := provision.LatestInstalled(root)
	return version != "" && provision.BinaryExists(root, version)
}
