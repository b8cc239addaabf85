package provision

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInstalled(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T) string
		want     []string
	}{
		{
			name: "non-existent root returns empty, not error",
			setupDir: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: nil,
		},
		{
			name: "empty root",
			setupDir: func(t *testing.T) string {
				return t.TempDir()
			},
			want: nil,
		},
		{
			name: "only v-prefixed directories count",
			setupDir: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "v1.0.0"), 0755))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "v1.1.0"), 0755))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "downloads"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "v1.2.0.lock"), []byte("1"), 0600))
				return dir
			},
			want: []string{"v1.0.0", "v1.1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.setupDir(t)
			got, err := ListInstalled(root)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestLatestInstalled(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"v1.2.0", "v1.10.0", "v1.9.0"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, v), 0755))
	}
	assert.Equal(t, "v1.10.0", LatestInstalled(dir))
	assert.Equal(t, "", LatestInstalled(filepath.Join(dir, "missing")))
}

func TestBinaryPath(t *testing.T) {
	assert.Empty(t, BinaryPath("/srv", ""), "empty version resolves to no path")

	got := BinaryPathFor("/srv", "v1.0.0", "linux")
	assert.Equal(t, filepath.Join("/srv", "v1.0.0", "run"), got)

	got = BinaryPathFor("/srv", "v1.0.0", "windows")
	assert.Equal(t, filepath.Join("/srv", "v1.0.0", "OmniSharp.exe"), got)

	// The deterministic join does not check existence.
	assert.NotEmpty(t, BinaryPath(filepath.Join(t.TempDir(), "nope"), "v9.9.9"))
}

func TestBinaryExists(t *testing.T) {
	dir := t.TempDir()
	version := "v1.0.0"
	require.NoError(t, os.MkdirAll(filepath.Join(dir, version), 0755))

	assert.False(t, BinaryExists(dir, version))
	assert.False(t, BinaryExists(dir, ""))

	name := "run"
	if runtime.GOOS == "windows" {
		name = "OmniSharp.exe"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, version, name), []byte("bin"), 0755))
	assert.True(t, BinaryExists(dir, version))
}
