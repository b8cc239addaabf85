package provision

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	root := t.TempDir()
	version := "v1.0.0"

	unlock1, err := acquireLock(root, version)
	require.NoError(t, err, "Failed to acquire lock")
	require.NotNil(t, unlock1, "Unlock function is nil")

	// Second acquisition for the same version must fail while held.
	unlock2, err := acquireLock(root, version)
	assert.ErrorIs(t, err, ErrInstallLocked)
	if unlock2 != nil {
		unlock2()
	}

	// A different version is an independent lock.
	unlockOther, err := acquireLock(root, "v2.0.0")
	require.NoError(t, err, "Different version must lock independently")
	unlockOther()

	unlock1()

	unlock3, err := acquireLock(root, version)
	require.NoError(t, err, "Failed to acquire lock after release")
	unlock3()
}

func TestAcquireLockStaleDetection(t *testing.T) {
	root := t.TempDir()
	version := "v1.0.0"

	// A lock file naming a PID that cannot exist is stale and replaced.
	lockPath := filepath.Join(root, version+".lock")
	require.NoError(t, os.WriteFile(lockPath, []byte("99999999"), 0600))

	unlock, err := acquireLock(root, version)
	require.NoError(t, err, "Expected to acquire lock over stale lock file")
	unlock()
}

func TestIsLockStale(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{
			name:     "empty file is stale",
			content:  "",
			expected: true,
		},
		{
			name:     "whitespace only is stale",
			content:  "   \n  ",
			expected: true,
		},
		{
			name:     "invalid PID is stale",
			content:  "not-a-number",
			expected: true,
		},
		{
			name:     "very large PID is stale",
			content:  "99999999",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lockPath := filepath.Join(root, "test-"+tt.name+".lock")
			require.NoError(t, os.WriteFile(lockPath, []byte(tt.content), 0600))
			assert.Equal(t, tt.expected, isLockStale(lockPath))
		})
	}

	// Non-existent file is not stale (safe default).
	assert.False(t, isLockStale(filepath.Join(root, "nonexistent.lock")))
}

func TestIsProcessRunning(t *testing.T) {
	assert.True(t, isProcessRunning(os.Getpid()), "Expected current process to be running")
	assert.False(t, isProcessRunning(99999999), "Expected invalid PID to not be running")
	assert.False(t, isProcessRunning(0))
	assert.False(t, isProcessRunning(-1))
}

// TestAcquireLockConcurrent verifies that concurrent acquisition attempts for
// the same (root, version) are serialized: each attempt either holds the lock
// exclusively or fails with ErrInstallLocked.
func TestAcquireLockConcurrent(t *testing.T) {
	root := t.TempDir()
	version := "v1.0.0"

	const numGoroutines = 10
	var wg sync.WaitGroup
	var successCount atomic.Int32
	var errorCount atomic.Int32

	start := make(chan struct{})

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			unlock, err := acquireLock(root, version)
			if err != nil {
				errorCount.Add(1)
				return
			}
			successCount.Add(1)
			unlock()
		}()
	}

	close(start)
	wg.Wait()

	assert.Greater(t, successCount.Load(), int32(0), "Expected at least one acquisition to succeed")
	assert.Equal(t, int32(numGoroutines), successCount.Load()+errorCount.Load())
}
