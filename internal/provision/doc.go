// Package provision implements the version-aware server provisioning engine:
// discovering installed server versions under an install root, discovering
// published versions in a remote release catalog, deciding whether an install
// or update is due, and downloading and unpacking the platform-specific
// distribution.
//
// The engine is synchronous; callers that must not block wrap the entry
// points (Updater.CheckAndUpdate, Updater.ResolveOrInstall) in their own
// goroutine and consume the result as a completion. Installs of the same
// version against the same root are serialized by a per-version lock file.
// Absence of an installed version is a normal first-run state, never an
// error; everything else fails explicitly with one of the sentinel errors in
// errors.go.
package provision
