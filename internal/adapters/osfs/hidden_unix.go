//go:build !windows

package osfs

import (
	"os"
	"path/filepath"
	"strings"
)

// Unix has no hidden attribute; a leading dot is the convention.
func isHidden(path string, info os.FileInfo) bool {
	name := filepath.Base(path)
	if info != nil {
		name = info.Name()
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
