package mocks

import (
	"io"
	"os"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// CreateCalls records destination paths passed to Create
	CreateCalls []string
	// Writers holds every writer returned by Create, in call order
	Writers []*MockArchiveWriter
	// ListResults maps zip paths to file listings
	ListResults map[string]map[string]ports.FileInfo
	// Errors maps method names ("Create", "List", "Add", "Close") to errors
	Errors map[string]error
	// AddErrors maps entry names to errors returned by Add
	AddErrors map[string]error
}

// NewMockArchiver creates a new mock archiver.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		ListResults: make(map[string]map[string]ports.FileInfo),
		Errors:      make(map[string]error),
		AddErrors:   make(map[string]error),
	}
}

// Create returns a recording writer for destPath.
func (m *MockArchiver) Create(destPath string) (ports.ArchiveWriter, error) {
	m.CreateCalls = append(m.CreateCalls, destPath)
	if err, ok := m.Errors["Create"]; ok {
		return nil, err
	}
	w := &MockArchiveWriter{parent: m}
	m.Writers = append(m.Writers, w)
	return w, nil
}

// List returns a map of entry names to their info from the archive.
func (m *MockArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}
	if result, ok := m.ListResults[zipPath]; ok {
		return result, nil
	}
	return make(map[string]ports.FileInfo), nil
}

// Last returns the most recently created writer, or nil.
func (m *MockArchiver) Last() *MockArchiveWriter {
	if len(m.Writers) == 0 {
		return nil
	}
	return m.Writers[len(m.Writers)-1]
}

// MockEntry is one entry written through MockArchiveWriter.
type MockEntry struct {
	Name    string
	Content string
}

// MockArchiveWriter records entries added to it.
type MockArchiveWriter struct {
	parent     *MockArchiver
	Entries    []MockEntry
	CloseCalls int
}

// Add records the entry and its content.
func (w *MockArchiveWriter) Add(name string, info os.FileInfo, src io.Reader) error {
	if err, ok := w.parent.AddErrors[name]; ok {
		return err
	}
	if err, ok := w.parent.Errors["Add"]; ok {
		return err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	w.Entries = append(w.Entries, MockEntry{Name: name, Content: string(data)})
	return nil
}

// Close counts calls so tests can assert the handle was released.
func (w *MockArchiveWriter) Close() error {
	w.CloseCalls++
	if err, ok := w.parent.Errors["Close"]; ok {
		return err
	}
	return nil
}

// Names returns the entry names in write order.
func (w *MockArchiveWriter) Names() []string {
	names := make([]string, 0, len(w.Entries))
	for _, e := range w.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
