package provision

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxFileSize caps a single extracted file at 500MB. Server distributions
// stay far below this; the cap bounds memory and disk use on a hostile or
// corrupt archive.
const maxFileSize = 500 * 1024 * 1024

// Extractor unpacks one archive format into a destination directory.
// The variant for the host platform is selected once via ExtractorFor.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// ExtractorFor returns the extraction strategy for goos: zip on Windows,
// gzip-compressed tar on Unix-like platforms. Unrecognized platforms get
// ErrExtractionUnsupported.
func ExtractorFor(goos string) (Extractor, error) {
	switch goos {
	case osWindows:
		return zipExtractor{}, nil
	case "linux", "darwin", "freebsd", "netbsd", "openbsd":
		return tarGzExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrExtractionUnsupported, goos)
	}
}

// sanitizePath joins name under destDir and rejects entries that would
// escape it (zip-slip).
func sanitizePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) &&
		target != filepath.Clean(destDir) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return target, nil
}

type zipExtractor struct{}

// Extract unpacks a zip archive into destDir, preserving entry modes.
func (zipExtractor) Extract(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target, err := sanitizePath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := writeZipEntry(file, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", file.Name, err)
	}
	defer src.Close()

	mode := file.Mode()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, maxFileSize)); err != nil {
		return fmt.Errorf("extracting %s: %w", target, err)
	}
	return nil
}

type tarGzExtractor struct{}

// Extract unpacks a gzip-compressed tar archive into destDir, preserving
// entry modes and symlinks.
func (tarGzExtractor) Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading tar stream: %w", err)
		}

		target, err := sanitizePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0750); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeTarEntry(tr, header, target); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %w", target, err)
			}
		default:
			// Hard links, devices and the like never appear in server
			// distributions; skip rather than fail.
		}
	}
	return nil
}

func writeTarEntry(tr *tar.Reader, header *tar.Header, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	mode := os.FileMode(header.Mode & 0777)
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(tr, maxFileSize)); err != nil {
		return fmt.Errorf("extracting %s: %w", target, err)
	}
	return nil
}
