package zipper

import (
	"path/filepath"
	"strings"
)

// ExclusionSet is an ordered list of substrings. A path containing any of
// them is excluded. Matching is plain substring containment, not glob:
// ".exe" excludes both foo.exe and foo.exedata.
type ExclusionSet []string

// NewExclusionSet copies patterns into a new set. Backslashes are
// normalized to forward slashes so that patterns written for Windows
// paths ("\bin\") match on every platform.
func NewExclusionSet(patterns []string) ExclusionSet {
	set := make(ExclusionSet, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			// An empty substring would match every path.
			continue
		}
		set = append(set, normalize(p))
	}
	return set
}

// Match returns the first pattern contained in path.
func (s ExclusionSet) Match(path string) (string, bool) {
	p := normalize(path)
	for _, pattern := range s {
		if strings.Contains(p, pattern) {
			return pattern, true
		}
	}
	return "", false
}

func normalize(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
