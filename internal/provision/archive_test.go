package provision

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name: "valid nested path",
			path: "subdir/file.txt",
		},
		{
			name: "simple filename",
			path: "file.txt",
		},
		{
			name:    "zip-slip attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "hidden path traversal",
			path:    "foo/../../../etc/passwd",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sanitizePath(tmpDir, tt.path)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestExtractorFor(t *testing.T) {
	tests := []struct {
		goos    string
		wantErr bool
	}{
		{goos: "windows"},
		{goos: "linux"},
		{goos: "darwin"},
		{goos: "freebsd"},
		{goos: "plan9", wantErr: true},
		{goos: "js", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			extractor, err := ExtractorFor(tt.goos)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrExtractionUnsupported)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, extractor)
		})
	}
}

func TestTarGzExtract(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "server.tar.gz")
	destDir := filepath.Join(tmpDir, "extracted")
	require.NoError(t, os.MkdirAll(destDir, 0750))

	createTestTarGz(t, archivePath, map[string]string{
		"run":             "#!/bin/sh",
		"bin/server.dll":  "assembly",
		"config/app.json": "{}",
	})

	require.NoError(t, tarGzExtractor{}.Extract(archivePath, destDir))

	assert.FileExists(t, filepath.Join(destDir, "run"))
	assert.FileExists(t, filepath.Join(destDir, "bin", "server.dll"))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(destDir, "run"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&0111, "executable bit from the archive must survive extraction")
	}
}

func TestZipExtract(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "server.zip")
	destDir := filepath.Join(tmpDir, "extracted")
	require.NoError(t, os.MkdirAll(destDir, 0750))

	createTestZip(t, archivePath, map[string]string{
		"OmniSharp.exe": "binary",
		"deps/lib.dll":  "assembly",
	})

	require.NoError(t, zipExtractor{}.Extract(archivePath, destDir))

	assert.FileExists(t, filepath.Join(destDir, "OmniSharp.exe"))
	assert.FileExists(t, filepath.Join(destDir, "deps", "lib.dll"))
}

func TestExtractNonExistentArchive(t *testing.T) {
	tmpDir := t.TempDir()
	require.Error(t, tarGzExtractor{}.Extract(filepath.Join(tmpDir, "missing.tar.gz"), tmpDir))
	require.Error(t, zipExtractor{}.Extract(filepath.Join(tmpDir, "missing.zip"), tmpDir))
}

func TestTarGzExtractRejectsEscapingEntries(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "evil.tar.gz")
	destDir := filepath.Join(tmpDir, "extracted")
	require.NoError(t, os.MkdirAll(destDir, 0750))

	createTestTarGz(t, archivePath, map[string]string{
		"../outside.txt": "escape",
	})

	require.Error(t, tarGzExtractor{}.Extract(archivePath, destDir))
	assert.NoFileExists(t, filepath.Join(tmpDir, "outside.txt"))
}

// Helper to create test tar.gz archives. Entries get mode 0755 so that
// executable-bit preservation can be asserted.
func createTestTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	for name, content := range files {
		hdr := &tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
}

// Helper to create test zip archives.
func createTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
}
