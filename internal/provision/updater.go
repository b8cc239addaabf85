package provision

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/razzmatazz/lsp-mode/internal/logging"
)

// UpdateStatus classifies the installed-vs-available comparison.
type UpdateStatus string

const (
	// StatusUpToDate means the latest available version was already installed.
	StatusUpToDate UpdateStatus = "up-to-date"
	// StatusUpdated means a newer version was installed over an older one.
	StatusUpdated UpdateStatus = "updated"
	// StatusFirstInstall means nothing was installed before this check.
	StatusFirstInstall UpdateStatus = "first-install"
)

// UpdateResult reports the comparison outcome regardless of whether an
// install occurred.
type UpdateResult struct {
	// Installed is the latest locally-installed version before the check,
	// "" on first run.
	Installed string
	// Available is the latest version in the remote catalog.
	Available string
	// Status classifies the comparison.
	Status UpdateStatus
	// Path is the verified binary path after the check, when one exists.
	Path string
}

// Updater compares local installs against the remote catalog and drives the
// Installer when an update is due.
type Updater struct {
	root      string
	catalog   *CatalogClient
	installer *Installer
}

// NewUpdater wires an Updater from its collaborators. The installer's root
// must match root.
func NewUpdater(root string, catalog *CatalogClient, installer *Installer) *Updater {
	return &Updater{root: root, catalog: catalog, installer: installer}
}

// CheckAndUpdate fetches the release catalog and the local install state
// concurrently, then installs the latest available version when nothing is
// installed or the available version is newer. The comparison result is
// reported even when no install happens. A catalog failure is reported
// without attempting an install.
func (u *Updater) CheckAndUpdate(ctx context.Context, progress func(string)) (*UpdateResult, error) {
	log := logging.FromContext(ctx)

	var (
		entries   []ReleaseEntry
		installed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = u.catalog.FetchReleases(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		installed, err = ListInstalled(u.root)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	available := Latest(VersionTags(entries))
	current := Latest(installed)

	result := &UpdateResult{Installed: current, Available: available}

	if available == "" {
		return nil, fmt.Errorf("%w: release catalog lists no versions", ErrParse)
	}

	log.Debug().
		Str("component", "updater").
		Str("operation", "check_and_update").
		Str("installed", current).
		Str("available", available).
		Msg("comparing versions")

	if current != "" && CompareTags(available, current) <= 0 {
		result.Status = StatusUpToDate
		result.Path = BinaryPathFor(u.root, current, u.installer.Platform().OS)
		return result, nil
	}

	install, err := u.installer.Install(ctx, available, InstallOptions{}, progress)
	if err != nil {
		return nil, err
	}

	if current == "" {
		result.Status = StatusFirstInstall
	} else {
		result.Status = StatusUpdated
	}
	result.Path = install.Path
	return result, nil
}

// ResolveOrInstall returns a runnable server binary path. A verified local
// install wins with no network activity; otherwise the latest available
// version is installed behind a confirmation prompt and re-resolved.
// ErrServerUnavailable comes back when no binary exists after the attempt.
func (u *Updater) ResolveOrInstall(ctx context.Context, progress func(string)) (string, error) {
	if current := LatestInstalled(u.root); current != "" {
		if path := u.installer.verifiedBinary(current); path != "" {
			return path, nil
		}
	}

	entries, err := u.catalog.FetchReleases(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}

	available := Latest(VersionTags(entries))
	if available == "" {
		return "", fmt.Errorf("%w: release catalog lists no versions", ErrServerUnavailable)
	}

	result, err := u.installer.Install(ctx, available, InstallOptions{RequireConfirmation: true}, progress)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	if result.Declined {
		return "", fmt.Errorf("%w: install declined", ErrServerUnavailable)
	}

	if path := u.installer.verifiedBinary(available); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: no binary at %s after install",
		ErrServerUnavailable, BinaryPathFor(u.root, available, u.installer.Platform().OS))
}
