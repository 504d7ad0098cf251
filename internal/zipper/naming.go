package zipper

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mcdonaldj/vszipper/internal/ports"
)

// TimestampLayout is the yyyyMMddHHmmss suffix of generated archive names.
const TimestampLayout = "20060102150405"

// ArchiveExt is appended to every generated name.
const ArchiveExt = ".zip"

// DefaultFallbackName is the prefix used when no marker file is found.
const DefaultFallbackName = "VSZipper"

// Default marker extensions.
var (
	DefaultSolutionMarkers = []string{".sln"}
	DefaultProjectMarkers  = []string{".csproj", ".vbproj", ".fsproj"}
)

// NameResolver derives the output archive name from marker files in a root directory.
type NameResolver struct {
	fs    ports.FileSystem
	clock ports.Clock

	SolutionMarkers []string
	ProjectMarkers  []string
	FallbackName    string
}

// NewNameResolver creates a resolver with the default markers and fallback.
func NewNameResolver(fs ports.FileSystem, clock ports.Clock) *NameResolver {
	return &NameResolver{
		fs:              fs,
		clock:           clock,
		SolutionMarkers: DefaultSolutionMarkers,
		ProjectMarkers:  DefaultProjectMarkers,
		FallbackName:    DefaultFallbackName,
	}
}

// Prefix returns the archive name prefix for root: the first solution
// marker's base name, else the first project marker's, else the fallback.
// Ties go to whichever file ReadDir lists first.
func (r *NameResolver) Prefix(root string) (string, error) {
	entries, err := r.fs.ReadDir(root)
	if err != nil {
		return "", newError(ComponentNameResolver, "reading directory", root, err)
	}

	for _, markers := range [][]string{r.SolutionMarkers, r.ProjectMarkers} {
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			name := entry.Name()
			ext := filepath.Ext(name)
			if ext == "" || ext == name || !hasExt(ext, markers) {
				continue
			}
			return strings.TrimSuffix(name, ext), nil
		}
	}

	if r.FallbackName == "" {
		return DefaultFallbackName, nil
	}
	return r.FallbackName, nil
}

// Resolve returns "{prefix}-{yyyyMMddHHmmss}.zip" for root using the
// current local time truncated to the second.
func (r *NameResolver) Resolve(root string) (string, error) {
	prefix, err := r.Prefix(root)
	if err != nil {
		return "", err
	}
	ts := r.clock.Now().Truncate(time.Second).Format(TimestampLayout)
	return prefix + "-" + ts + ArchiveExt, nil
}

func hasExt(ext string, markers []string) bool {
	for _, m := range markers {
		if strings.EqualFold(ext, m) {
			return true
		}
	}
	return false
}
