package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	osWindows = "windows"

	// serverBinaryWindows is the server executable inside a version directory
	// on Windows; serverBinaryUnix is the launch script everywhere else.
	serverBinaryWindows = "OmniSharp.exe"
	serverBinaryUnix    = "run"
)

// ListInstalled returns the version tags installed under root: the names of
// first-level subdirectories that look like version tags. A missing root is
// a normal first-run state and yields an empty slice, not an error.
func ListInstalled(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading server directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if IsVersionTag(entry.Name()) {
			versions = append(versions, entry.Name())
		}
	}
	return versions, nil
}

// LatestInstalled returns the newest installed version tag under root, or ""
// when nothing is installed or root cannot be read.
func LatestInstalled(root string) string {
	versions, err := ListInstalled(root)
	if err != nil {
		return ""
	}
	return Latest(versions)
}

// BinaryPath returns the expected server executable path for version under
// root on the current platform, or "" when version is empty. The path is a
// deterministic join; existence is not checked.
func BinaryPath(root, version string) string {
	return BinaryPathFor(root, version, runtime.GOOS)
}

// BinaryPathFor is BinaryPath for an explicit GOOS value.
func BinaryPathFor(root, version, goos string) string {
	if version == "" {
		return ""
	}
	name := serverBinaryUnix
	if goos == osWindows {
		name = serverBinaryWindows
	}
	return filepath.Join(root, version, name)
}

// BinaryExists reports whether the expected server binary for version is
// present under root. Used by the transport layer as a viability probe
// before attempting to spawn the server.
func BinaryExists(root, version string) bool {
	path := BinaryPath(root, version)
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
