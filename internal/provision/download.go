package provision

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/razzmatazz/lsp-mode/internal/logging"
)

// downloadTimeout bounds a single archive download. Server archives are tens
// of megabytes; slow links still finish well inside this.
const downloadTimeout = 10 * time.Minute

// Downloader fetches release archives to disk.
type Downloader struct {
	// HTTPClient performs the requests. Exposed for tests.
	HTTPClient *http.Client
}

// NewDownloader returns a Downloader with a default HTTP client.
func NewDownloader() *Downloader {
	return &Downloader{
		HTTPClient: &http.Client{Timeout: downloadTimeout},
	}
}

// Download fetches url into dest. The body is written to a temporary file in
// dest's directory and renamed into place, so a failed download never leaves
// a partial file at dest. Transport failures and non-2xx responses wrap
// ErrNetwork. progress, when non-nil, receives human-readable status lines.
func (d *Downloader) Download(ctx context.Context, url, dest string, progress func(string)) error {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "downloader").
		Str("operation", "download").
		Str("url", url).
		Str("dest", dest).
		Msg("downloading archive")

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building download request: %v", ErrNetwork, err)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: downloading %s: %v", ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: download of %s returned status %d", ErrNetwork, url, resp.StatusCode)
	}

	if progress != nil {
		progress(fmt.Sprintf("Downloading %s...", filepath.Base(dest)))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrNetwork, dest, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing download: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("finalizing download: %w", err)
	}

	log.Debug().
		Str("component", "downloader").
		Str("dest", dest).
		Msg("archive downloaded")

	return nil
}
