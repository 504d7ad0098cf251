// Package zipper packages a directory tree into a single zip archive,
// skipping hidden files, the archive itself, and any path that contains
// one of the configured exclusion substrings.
//
// A zip call runs Idle → NameResolved → ArchiveOpen → Scanning →
// (Filtering → Writing|Skipping)* → ArchiveClosed → Done|Failed.
// ArchiveClosed is reached on every path.
package zipper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// SkippedFile is a file that could not be archived but did not abort the run.
type SkippedFile struct {
	Path string
	Err  error
}

// Result describes the outcome of a zip call. It is returned alongside a
// non-nil error too, holding whatever was written before the failure.
type Result struct {
	OutputPath string
	Entries    []string      // archive entry names, in write order
	Excluded   []string      // full paths dropped by the exclusion set
	Skipped    []SkippedFile // per-file failures tolerated during the run
}

// Options configures a Zipper.
type Options struct {
	Exclusions []string

	// AbortOnError turns per-file scan and read failures into a failure
	// of the whole operation instead of recording them in Result.Skipped.
	AbortOnError bool
}

// Zipper archives directory trees. It holds no per-call state and the
// exclusion set never changes after construction.
type Zipper struct {
	fs       ports.FileSystem
	archiver ports.Archiver
	resolver *NameResolver
	scanner  *Scanner

	exclusions   ExclusionSet
	abortOnError bool
}

// New creates a Zipper with injected dependencies.
func New(fs ports.FileSystem, archiver ports.Archiver, resolver *NameResolver, opts Options) *Zipper {
	return &Zipper{
		fs:           fs,
		archiver:     archiver,
		resolver:     resolver,
		scanner:      NewScanner(fs),
		exclusions:   NewExclusionSet(opts.Exclusions),
		abortOnError: opts.AbortOnError,
	}
}

// ZipDefault resolves the archive name for root and archives root into it.
func (z *Zipper) ZipDefault(ctx context.Context, root string) (*Result, error) {
	name, err := z.resolver.Resolve(root)
	if err != nil {
		return &Result{}, err
	}
	return z.Zip(ctx, root, name)
}

// Zip archives root into output. A relative output is placed inside root.
// The archive is created new; an existing file at output fails with an
// error matching ErrOutputExists.
func (z *Zipper) Zip(ctx context.Context, root, output string) (res *Result, err error) {
	res = &Result{}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return res, newError(ComponentScanner, "resolving root", root, err)
	}
	// Walk is Lstat based, so a linked root is walked through its target.
	walkRoot := z.resolve(absRoot)
	if !filepath.IsAbs(output) {
		output = filepath.Join(absRoot, output)
	}
	output = filepath.Clean(output)
	res.OutputPath = output
	self := filepath.Join(z.resolve(filepath.Dir(output)), filepath.Base(output))

	if err := ctx.Err(); err != nil {
		return res, err
	}

	archive, err := z.archiver.Create(output)
	if err != nil {
		return res, newError(ComponentWriter, "creating archive", output, err)
	}
	defer func() {
		if closeErr := archive.Close(); closeErr != nil && err == nil {
			err = newError(ComponentWriter, "closing archive", output, closeErr)
		}
	}()

	for c, scanErr := range z.scanner.Scan(ctx, walkRoot, self) {
		if scanErr != nil {
			if c.Path == "" || z.abortOnError {
				return res, scanErr
			}
			res.Skipped = append(res.Skipped, SkippedFile{Path: c.Path, Err: scanErr})
			continue
		}

		if err := ctx.Err(); err != nil {
			return res, err
		}

		name, err := entryName(walkRoot, c.Path)
		if err != nil {
			return res, newError(ComponentWriter, "naming entry", c.Path, err)
		}

		// Exclusions see the path as the caller named it.
		path := filepath.Join(absRoot, filepath.FromSlash(name))
		if _, excluded := z.exclusions.Match(path); excluded {
			res.Excluded = append(res.Excluded, path)
			continue
		}

		if err := z.write(archive, name, c); err != nil {
			var readErr *Error
			if errors.As(err, &readErr) && readErr.Op == opOpen && !z.abortOnError {
				res.Skipped = append(res.Skipped, SkippedFile{Path: c.Path, Err: err})
				continue
			}
			return res, err
		}
		res.Entries = append(res.Entries, name)
	}

	return res, nil
}

// resolve evaluates symlinks in path. A path that cannot be resolved is
// returned unchanged so the failure surfaces where it is used.
func (z *Zipper) resolve(path string) string {
	if resolved, err := z.fs.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

const opOpen = "opening"

// write streams one candidate into the archive. Failing to open the source
// is reported with Op opOpen so the caller can treat it as a per-file race.
func (z *Zipper) write(archive ports.ArchiveWriter, name string, c Candidate) error {
	src, err := z.fs.Open(c.Path)
	if err != nil {
		return newError(ComponentWriter, opOpen, c.Path, err)
	}
	defer func() { _ = src.Close() }()

	if err := archive.Add(name, c.Info, src); err != nil {
		return newError(ComponentWriter, "adding", c.Path, err)
	}
	return nil
}

// entryName returns path relative to root in the zip format's slash form.
func entryName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return "", fmt.Errorf("%w: %s is outside %s", fs.ErrInvalid, path, root)
	}
	return filepath.ToSlash(rel), nil
}
