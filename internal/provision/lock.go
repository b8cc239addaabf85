package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// acquireLock takes the per-(root, version) install lock by creating
// root/<version>.lock exclusively with this process's PID inside. The lock is
// held for the whole download+extract+verify sequence. A lock file whose PID
// no longer names a live process is treated as stale and replaced.
// The returned function releases the lock.
func acquireLock(root, version string) (func(), error) {
	lockPath := filepath.Join(root, version+".lock")

	if isLockStale(lockPath) {
		_ = os.Remove(lockPath)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: failed to acquire lock %s", ErrInstallLocked, lockPath)
		}
		return nil, fmt.Errorf("creating lock file: %w", err)
	}

	_, writeErr := f.WriteString(strconv.Itoa(os.Getpid()))
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(lockPath)
		return nil, fmt.Errorf("writing lock file: %w", errFirst(writeErr, closeErr))
	}

	return func() { _ = os.Remove(lockPath) }, nil
}

// isLockStale reports whether the lock file at path names a process that is
// no longer running. A missing file is not stale (safe default); an empty or
// unparseable file is.
func isLockStale(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return true
	}

	pid, err := strconv.Atoi(content)
	if err != nil {
		return true
	}

	return !isProcessRunning(pid)
}

// isProcessRunning probes pid with signal 0.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func errFirst(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
