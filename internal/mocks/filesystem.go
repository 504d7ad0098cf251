// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// MockFileSystem implements ports.FileSystem for testing.
type MockFileSystem struct {
	// Files maps paths to file contents for Open/Stat
	Files map[string][]byte
	// Dirs maps paths to directory entries for ReadDir
	Dirs map[string][]os.DirEntry
	// Stats maps paths to FileInfo for Stat
	Stats map[string]os.FileInfo
	// HiddenPaths marks paths reported as hidden
	HiddenPaths map[string]bool
	// Errors maps paths to errors (for simulating failures)
	Errors map[string]error
	// WalkEntries contains entries to return during Walk, in walk order
	WalkEntries []WalkEntry
	// Opened records every path passed to Open
	Opened []string
	// Links maps symlink paths to their targets for EvalSymlinks
	Links map[string]string
}

// WalkEntry represents a file or directory entry for Walk testing.
type WalkEntry struct {
	Path string
	Info os.FileInfo
	Err  error
}

// NewMockFileSystem creates a new mock filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:       make(map[string][]byte),
		Dirs:        make(map[string][]os.DirEntry),
		Stats:       make(map[string]os.FileInfo),
		HiddenPaths: make(map[string]bool),
		Errors:      make(map[string]error),
		Links:       make(map[string]string),
	}
}

// AddFile registers a regular file with content and a matching walk entry.
func (m *MockFileSystem) AddFile(path, content string) {
	m.Files[path] = []byte(content)
	m.WalkEntries = append(m.WalkEntries, WalkEntry{
		Path: path,
		Info: FileInfo(filepath.Base(path), int64(len(content))),
	})
}

// AddDir registers a directory walk entry.
func (m *MockFileSystem) AddDir(path string) {
	m.WalkEntries = append(m.WalkEntries, WalkEntry{
		Path: path,
		Info: DirInfo(filepath.Base(path)),
	})
}

// ReadDir reads the named directory and returns directory entries.
func (m *MockFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if entries, ok := m.Dirs[name]; ok {
		return entries, nil
	}
	return nil, os.ErrNotExist
}

// Stat returns file info for the named file.
func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	if info, ok := m.Stats[name]; ok {
		return info, nil
	}
	// Check if we have file content (implies file exists)
	if content, ok := m.Files[name]; ok {
		return FileInfo(filepath.Base(name), int64(len(content))), nil
	}
	return nil, os.ErrNotExist
}

// Open opens the named file for reading.
func (m *MockFileSystem) Open(name string) (io.ReadCloser, error) {
	m.Opened = append(m.Opened, name)
	if err, ok := m.Errors[name]; ok {
		return nil, err
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Hidden reports whether path was registered in HiddenPaths.
func (m *MockFileSystem) Hidden(path string, info os.FileInfo) bool {
	return m.HiddenPaths[path]
}

// EvalSymlinks returns the Links target for path, or path itself.
func (m *MockFileSystem) EvalSymlinks(path string) (string, error) {
	if target, ok := m.Links[path]; ok {
		return target, nil
	}
	return path, nil
}

// Walk replays WalkEntries under root, honoring fs.SkipDir and fs.SkipAll.
func (m *MockFileSystem) Walk(root string, fn ports.WalkFunc) error {
	var skipped []string
	for _, entry := range m.WalkEntries {
		if entry.Path != root && !strings.HasPrefix(entry.Path, root+"/") {
			continue
		}
		if underAny(entry.Path, skipped) {
			continue
		}
		if err := fn(entry.Path, entry.Info, entry.Err); err != nil {
			switch err {
			case fs.SkipAll:
				return nil
			case fs.SkipDir:
				if entry.Info != nil && entry.Info.IsDir() {
					skipped = append(skipped, entry.Path)
					continue
				}
				// SkipDir on a file skips the rest of its directory
				skipped = append(skipped, filepath.Dir(entry.Path))
				continue
			default:
				return err
			}
		}
	}
	return nil
}

func underAny(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d+"/") {
			return true
		}
	}
	return false
}

// FileInfo returns an os.FileInfo for a regular file.
func FileInfo(name string, size int64) os.FileInfo {
	return &mockFileInfo{name: name, size: size, mode: 0o644, modTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
}

// DirInfo returns an os.FileInfo for a directory.
func DirInfo(name string) os.FileInfo {
	return &mockFileInfo{name: name, mode: fs.ModeDir | 0o755, isDir: true}
}

// SymlinkInfo returns an os.FileInfo for a symbolic link.
func SymlinkInfo(name string) os.FileInfo {
	return &mockFileInfo{name: name, mode: fs.ModeSymlink | 0o777}
}

// mockFileInfo implements os.FileInfo for testing.
type mockFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
	isDir   bool
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// DirEntry returns an os.DirEntry for ReadDir results.
func DirEntry(name string, isDir bool) os.DirEntry {
	return &mockDirEntry{name: name, isDir: isDir}
}

// mockDirEntry implements os.DirEntry for testing.
type mockDirEntry struct {
	name  string
	isDir bool
}

func (e *mockDirEntry) Name() string { return e.name }
func (e *mockDirEntry) IsDir() bool  { return e.isDir }
func (e *mockDirEntry) Type() os.FileMode {
	if e.isDir {
		return os.ModeDir
	}
	return 0
}
func (e *mockDirEntry) Info() (os.FileInfo, error) {
	if e.isDir {
		return DirInfo(e.name), nil
	}
	return FileInfo(e.name, 0), nil
}

// Compile-time check that MockFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*MockFileSystem)(nil)
