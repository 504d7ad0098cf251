// Package ports defines interfaces (contracts) for external dependencies.
// These enable dependency injection and testability via mock implementations.
package ports

import (
	"io"
	"io/fs"
	"os"
)

// FileSystem abstracts the filesystem operations the zipper needs.
// Production code uses the OSFileSystem adapter; tests use MockFileSystem.
type FileSystem interface {
	// ReadDir reads the named directory and returns its entries in the
	// order the underlying implementation lists them.
	ReadDir(name string) ([]os.DirEntry, error)

	// Stat returns file info for the named file.
	Stat(name string) (os.FileInfo, error)

	// Open opens the named file for reading.
	Open(name string) (io.ReadCloser, error)

	// Hidden reports whether the entry at path carries the host's hidden attribute.
	Hidden(path string, info os.FileInfo) bool

	// EvalSymlinks returns path with any symbolic links resolved.
	EvalSymlinks(path string) (string, error)

	// Walk walks the file tree rooted at root, calling fn for each file or directory.
	Walk(root string, fn WalkFunc) error
}

// WalkFunc is the type of function called by Walk.
// Returning fs.SkipDir or fs.SkipAll behaves as in filepath.Walk.
type WalkFunc func(path string, info fs.FileInfo, err error) error
