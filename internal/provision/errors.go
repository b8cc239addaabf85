package provision

import "errors"

// Error kinds surfaced by the provisioning engine. All of them are reported
// to the editor integration layer as values; none crash the host process.
var (
	// ErrNetwork indicates the catalog fetch or archive download failed at
	// the transport level. Retryable by re-invocation; never auto-retried.
	ErrNetwork = errors.New("network error")

	// ErrParse indicates the release catalog response did not match the
	// expected schema. Not retryable without an upstream fix.
	ErrParse = errors.New("catalog parse error")

	// ErrExtractionUnsupported indicates the host platform lacks a usable
	// archive extraction strategy.
	ErrExtractionUnsupported = errors.New("archive extraction unsupported on this platform")

	// ErrVerificationFailed indicates the server binary was missing after
	// extraction. The target directory is left in place for diagnosis; a
	// forced reinstall is the recovery path.
	ErrVerificationFailed = errors.New("server binary verification failed")

	// ErrServerUnavailable indicates no runnable server binary could be
	// resolved after every avenue was exhausted.
	ErrServerUnavailable = errors.New("language server unavailable")

	// ErrInstallLocked indicates another install for the same version is in
	// progress against the same root.
	ErrInstallLocked = errors.New("install already in progress")
)
