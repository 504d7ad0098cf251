package zipper

import (
	"context"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// Candidate is a file discovered by the scanner, prior to exclusion filtering.
type Candidate struct {
	Path string
	Info fs.FileInfo
}

// Scanner enumerates the files under a root directory.
type Scanner struct {
	fs ports.FileSystem
}

// NewScanner creates a scanner backed by fs.
func NewScanner(fs ports.FileSystem) *Scanner {
	return &Scanner{fs: fs}
}

// Scan lazily walks root and yields every regular file that is not hidden
// and is not output. Symbolic links to regular files are yielded with the
// target's info; linked directories are not descended.
//
// A failure to read root itself is yielded once and ends the sequence.
// Failures on other entries are yielded as *Error with Path set and the
// walk continues past them. Cancelling ctx yields ctx.Err() and stops.
func (s *Scanner) Scan(ctx context.Context, root, output string) iter.Seq2[Candidate, error] {
	root = filepath.Clean(root)
	if output != "" {
		output = filepath.Clean(output)
	}

	return func(yield func(Candidate, error) bool) {
		stopped := false
		emit := func(c Candidate, err error) error {
			if !yield(c, err) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		}

		walkErr := s.fs.Walk(root, func(path string, info fs.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				_ = emit(Candidate{}, ctxErr)
				stopped = true
				return fs.SkipAll
			}

			if err != nil {
				if filepath.Clean(path) == root {
					_ = emit(Candidate{}, newError(ComponentScanner, "reading root", root, err))
					stopped = true
					return fs.SkipAll
				}
				if skip := emit(Candidate{Path: path}, newError(ComponentScanner, "reading", path, err)); skip != nil {
					return skip
				}
				if info != nil && info.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				return nil
			}

			if info.Mode()&fs.ModeSymlink != 0 {
				target, statErr := s.fs.Stat(path)
				if statErr != nil {
					return emit(Candidate{Path: path}, newError(ComponentScanner, "resolving link", path, statErr))
				}
				if !target.Mode().IsRegular() {
					return nil
				}
				info = target
			}

			if !info.Mode().IsRegular() {
				return nil
			}
			if s.fs.Hidden(path, info) {
				return nil
			}
			if output != "" && filepath.Clean(path) == output {
				return nil
			}

			return emit(Candidate{Path: path, Info: info}, nil)
		})

		if walkErr != nil && !stopped {
			yield(Candidate{}, newError(ComponentScanner, "walking", root, walkErr))
		}
	}
}
