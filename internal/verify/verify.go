// Package verify checks an archive against the directory it was built from.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/mcdonaldj/vszipper/internal/adapters/osfs"
	"github.com/mcdonaldj/vszipper/internal/adapters/ziparchiver"
	"github.com/mcdonaldj/vszipper/internal/ports"
)

// Report is the outcome of verifying one archive.
type Report struct {
	Archive    string
	SHA256     string
	Checked    int
	Mismatched []string // entries whose size or CRC-32 differs from the source
	Missing    []string // entries with no source file under root
}

// OK reports whether every entry matched its source file.
func (r *Report) OK() bool {
	return len(r.Mismatched) == 0 && len(r.Missing) == 0
}

// Service provides verification with injected dependencies.
type Service struct {
	fs       ports.FileSystem
	archiver ports.Archiver
}

// NewService creates a new verify service with the given dependencies.
func NewService(fs ports.FileSystem, archiver ports.Archiver) *Service {
	return &Service{
		fs:       fs,
		archiver: archiver,
	}
}

// NewDefaultService creates a verify service with real production dependencies.
func NewDefaultService() *Service {
	return NewService(osfs.New(), ziparchiver.New())
}

// Verify compares each entry of zipPath with the file at the same relative
// path under root. Differences are collected in the report; only failures to
// read the archive itself are returned as errors.
func (s *Service) Verify(zipPath, root string) (*Report, error) {
	entries, err := s.archiver.List(zipPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	sum, err := s.ComputeSHA256(zipPath)
	if err != nil {
		return nil, fmt.Errorf("computing checksum: %w", err)
	}

	report := &Report{Archive: zipPath, SHA256: sum}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := entries[name]
		report.Checked++

		got, err := s.fileInfo(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Missing = append(report.Missing, name)
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if got != want {
			report.Mismatched = append(report.Mismatched, name)
		}
	}

	return report, nil
}

// fileInfo returns the size and CRC-32 of a source file.
func (s *Service) fileInfo(path string) (ports.FileInfo, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return ports.FileInfo{}, err
	}
	defer func() { _ = f.Close() }()

	h := crc32.NewIEEE()
	n, err := io.Copy(h, f)
	if err != nil {
		return ports.FileInfo{}, err
	}
	return ports.FileInfo{Size: n, CRC32: h.Sum32()}, nil
}

// ComputeSHA256 calculates SHA256 hash of a file
func (s *Service) ComputeSHA256(path string) (string, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
