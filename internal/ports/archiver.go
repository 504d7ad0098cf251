package ports

import (
	"errors"
	"io"
	"os"
)

// ErrArchiveExists is returned by Archiver.Create when the destination
// file is already present. Create never overwrites.
var ErrArchiveExists = errors.New("archive already exists")

// Archiver abstracts zip archive operations for testability.
// Production code uses ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Create opens a new archive at destPath with create-new semantics.
	// It fails with an error wrapping ErrArchiveExists if destPath exists.
	Create(destPath string) (ArchiveWriter, error)

	// List returns a map of entry names to their info from the archive.
	List(zipPath string) (map[string]FileInfo, error)
}

// ArchiveWriter is an open, writable archive bound to one output file.
// Close must be called exactly once; it flushes the central directory.
type ArchiveWriter interface {
	// Add streams src into a new entry called name.
	// info supplies the modification time and mode for the entry header.
	Add(name string, info os.FileInfo, src io.Reader) error

	// Close finalizes the archive and releases the underlying file.
	Close() error
}

// FileInfo contains metadata about a file in an archive.
type FileInfo struct {
	Size  int64
	CRC32 uint32
}
