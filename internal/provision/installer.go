package provision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/razzmatazz/lsp-mode/internal/logging"
)

// InstallOptions control a single install attempt.
type InstallOptions struct {
	// RequireConfirmation routes a yes/no decision through the Interaction
	// port before any network or filesystem activity. A negative answer
	// aborts with no side effects and no error.
	RequireConfirmation bool

	// ForceRedownload deletes an already-downloaded archive before fetching.
	ForceRedownload bool
}

// InstallResult reports the outcome of an install attempt.
type InstallResult struct {
	// Version is the target version tag.
	Version string
	// Path is the verified server binary path. Empty when Declined.
	Path string
	// Skipped is true when the target was already installed and verified;
	// no network activity occurred.
	Skipped bool
	// Declined is true when the confirmation prompt was answered no.
	// User-declined is a normal termination, not a failure.
	Declined bool
}

// Installer downloads, unpacks, and verifies server distributions under a
// single install root. Failures never touch previously-installed versions;
// only the target version's subdirectory is affected.
type Installer struct {
	root           string
	releaseBaseURL string
	platform       Platform

	// Downloader fetches archives. Exposed for tests.
	Downloader *Downloader

	// Interact is the host interaction port. Defaults to NopInteraction.
	Interact Interaction
}

// NewInstaller returns an Installer for the given install root, archive base
// URL, and target platform.
func NewInstaller(root, releaseBaseURL string, platform Platform) *Installer {
	return &Installer{
		root:           root,
		releaseBaseURL: releaseBaseURL,
		platform:       platform,
		Downloader:     NewDownloader(),
		Interact:       NopInteraction{},
	}
}

// Install provisions target under the install root.
//
// The sequence is strictly ordered: idempotent-skip check, confirmation,
// directory creation, download (skipped when the archive is already on
// disk), extraction, verification. A failed attempt may leave the archive
// and the target subdirectory behind so a retry can resume, but it never
// corrupts other versions.
func (i *Installer) Install(
	ctx context.Context,
	target string,
	opts InstallOptions,
	progress func(string),
) (*InstallResult, error) {
	if !IsVersionTag(target) {
		return nil, fmt.Errorf("invalid version tag %q", target)
	}

	log := logging.FromContext(ctx).With().
		Str("component", "installer").
		Str("operation", "install").
		Str("version", target).
		Str("attempt_id", ulid.Make().String()).
		Logger()

	// Idempotent skip: the currently-latest install wins without touching
	// the network.
	if installed := LatestInstalled(i.root); installed == target {
		if path := i.verifiedBinary(target); path != "" {
			log.Debug().Str("path", path).Msg("version already installed")
			return &InstallResult{Version: target, Path: path, Skipped: true}, nil
		}
	}

	if opts.RequireConfirmation {
		prompt := i.confirmPrompt(target)
		if !i.interact().Confirm(prompt) {
			log.Info().Msg("install declined")
			return &InstallResult{Version: target, Declined: true}, nil
		}
	}

	if err := os.MkdirAll(i.root, 0750); err != nil {
		return nil, fmt.Errorf("creating install root: %w", err)
	}

	unlock, err := acquireLock(i.root, target)
	if err != nil {
		return nil, err
	}
	defer unlock()

	targetDir := filepath.Join(i.root, target)
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return nil, fmt.Errorf("creating version directory: %w", err)
	}

	desc := DescribePackage(i.platform, target, i.releaseBaseURL)
	if desc.GenericFallback {
		i.interact().Notify(fmt.Sprintf(
			"No native server package for %s/%s; falling back to the generic mono package. "+
				"It may not be runnable on this platform.", i.platform.OS, i.platform.Arch))
	}

	archivePath := filepath.Join(targetDir, desc.Filename)
	if err := i.fetchArchive(ctx, desc, archivePath, opts, progress, log); err != nil {
		return nil, err
	}

	extractor, err := ExtractorFor(i.platform.OS)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(fmt.Sprintf("Extracting %s...", desc.Filename))
	}
	if err := extractor.Extract(archivePath, targetDir); err != nil {
		return nil, fmt.Errorf("extracting %s: %w", desc.Filename, err)
	}

	binPath := BinaryPathFor(i.root, target, i.platform.OS)
	if info, statErr := os.Stat(binPath); statErr != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: expected %s for version %s", ErrVerificationFailed, binPath, target)
	}

	log.Info().Str("path", binPath).Msg("server installed")
	if progress != nil {
		progress(fmt.Sprintf("Installed server %s", target))
	}

	return &InstallResult{Version: target, Path: binPath}, nil
}

// fetchArchive downloads the package archive unless it is already present.
// Resumability is whole-file: a complete archive on disk short-circuits the
// download; ForceRedownload deletes it first.
func (i *Installer) fetchArchive(
	ctx context.Context,
	desc PackageDescriptor,
	archivePath string,
	opts InstallOptions,
	progress func(string),
	log zerolog.Logger,
) error {
	if opts.ForceRedownload {
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale archive: %w", err)
		}
	}

	if _, err := os.Stat(archivePath); err == nil {
		log.Debug().Str("archive", archivePath).Msg("archive already downloaded")
		if progress != nil {
			progress(fmt.Sprintf("Using already-downloaded %s", desc.Filename))
		}
		return nil
	}

	return i.Downloader.Download(ctx, desc.URL, archivePath, progress)
}

// verifiedBinary returns the binary path for version when it exists on disk,
// "" otherwise.
func (i *Installer) verifiedBinary(version string) string {
	path := BinaryPathFor(i.root, version, i.platform.OS)
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// confirmPrompt builds the interactive install question, naming current and
// target versions.
func (i *Installer) confirmPrompt(target string) string {
	if installed := LatestInstalled(i.root); installed != "" {
		return fmt.Sprintf("Install language server %s (currently installed: %s)?", target, installed)
	}
	return fmt.Sprintf("No language server installed. Install %s?", target)
}

func (i *Installer) interact() Interaction {
	if i.Interact == nil {
		return NopInteraction{}
	}
	return i.Interact
}

// Root returns the install root this Installer manages.
func (i *Installer) Root() string { return i.root }

// Platform returns the platform this Installer provisions for.
func (i *Installer) Platform() Platform { return i.platform }
