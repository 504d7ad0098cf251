// Package ziparchiver provides an archiver adapter using the archive/zip package.
package ziparchiver

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// ZipArchiver implements ports.Archiver using archive/zip.
type ZipArchiver struct{}

// New creates a new ZipArchiver adapter.
func New() *ZipArchiver {
	return &ZipArchiver{}
}

// Create opens destPath for writing a new zip archive.
// The file is created with O_EXCL, so an existing file is never overwritten.
func (a *ZipArchiver) Create(destPath string) (ports.ArchiveWriter, error) {
	f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrArchiveExists, destPath)
		}
		return nil, err
	}
	return &zipWriter{file: f, w: zip.NewWriter(f)}, nil
}

// zipWriter is the open archive handle returned by Create.
type zipWriter struct {
	file   *os.File
	w      *zip.Writer
	closed bool
}

// Add writes src as a deflated entry called name.
func (z *zipWriter) Add(name string, info os.FileInfo, src io.Reader) error {
	if z.closed {
		return errors.New("archive is closed")
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := z.w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", name, err)
	}
	if _, err := io.Copy(writer, src); err != nil {
		return fmt.Errorf("writing entry %s: %w", name, err)
	}
	return nil
}

// Close flushes the central directory and closes the file.
// Calling Close more than once is a no-op.
func (z *zipWriter) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true

	// Close zip writer first to flush data
	if err := z.w.Close(); err != nil {
		_ = z.file.Close() // Best effort cleanup on error path
		return fmt.Errorf("closing zip writer: %w", err)
	}

	// Then close the file
	if err := z.file.Close(); err != nil {
		return fmt.Errorf("closing zip file: %w", err)
	}
	return nil
}

// List returns a map of entry names to their info from the archive.
// Directory entries are skipped.
func (a *ZipArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	files := make(map[string]ports.FileInfo, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Safe conversion: check for overflow before uint64 -> int64
		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		files[f.Name] = ports.FileInfo{
			Size:  size,
			CRC32: f.CRC32,
		}
	}

	return files, nil
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
