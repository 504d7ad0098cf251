package zipper

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdonaldj/vszipper/internal/mocks"
)

// collect drains a scan, splitting candidates from errors.
func collect(t *testing.T, s *Scanner, ctx context.Context, root, output string) ([]string, []error) {
	t.Helper()
	var paths []string
	var errs []error
	for c, err := range s.Scan(ctx, root, output) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, c.Path)
	}
	return paths, errs
}

func TestScanSkipsHiddenAndOutput(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/proj")
	fs.AddFile("/proj/App.sln", "sln")
	fs.AddFile("/proj/.gitignore", "bin/")
	fs.AddDir("/proj/src")
	fs.AddFile("/proj/src/main.cs", "class A {}")
	fs.AddFile("/proj/App-20240309140507.zip", "")
	fs.HiddenPaths["/proj/.gitignore"] = true

	paths, errs := collect(t, NewScanner(fs), context.Background(), "/proj", "/proj/App-20240309140507.zip")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{"/proj/App.sln", "/proj/src/main.cs"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanEmptyDirectory(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/empty")

	paths, errs := collect(t, NewScanner(fs), context.Background(), "/empty", "")
	if len(paths) != 0 || len(errs) != 0 {
		t.Errorf("expected nothing, got paths=%v errs=%v", paths, errs)
	}
}

func TestScanRootErrorStops(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.WalkEntries = []mocks.WalkEntry{
		{Path: "/gone", Err: os.ErrNotExist},
		{Path: "/gone/a.txt", Info: mocks.FileInfo("a.txt", 1)},
	}

	paths, errs := collect(t, NewScanner(fs), context.Background(), "/gone", "")
	if len(paths) != 0 {
		t.Errorf("expected no candidates, got %v", paths)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !errors.Is(errs[0], os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", errs[0])
	}
	if ComponentOf(errs[0]) != ComponentScanner {
		t.Errorf("component = %q", ComponentOf(errs[0]))
	}
}

func TestScanEntryErrorContinues(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/proj")
	fs.WalkEntries = append(fs.WalkEntries, mocks.WalkEntry{
		Path: "/proj/locked", Info: mocks.DirInfo("locked"), Err: os.ErrPermission,
	})
	fs.AddFile("/proj/locked/secret.txt", "x")
	fs.AddFile("/proj/open.txt", "y")

	paths, errs := collect(t, NewScanner(fs), context.Background(), "/proj", "")

	if diff := cmp.Diff([]string{"/proj/open.txt"}, paths); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
	if len(errs) != 1 {
		t.Fatalf("expected one entry error, got %v", errs)
	}
	var ze *Error
	if !errors.As(errs[0], &ze) || ze.Path != "/proj/locked" {
		t.Errorf("expected *Error for /proj/locked, got %v", errs[0])
	}
}

func TestScanFollowsFileSymlinks(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/proj")
	fs.WalkEntries = append(fs.WalkEntries,
		mocks.WalkEntry{Path: "/proj/link.txt", Info: mocks.SymlinkInfo("link.txt")},
		mocks.WalkEntry{Path: "/proj/dirlink", Info: mocks.SymlinkInfo("dirlink")},
		mocks.WalkEntry{Path: "/proj/broken", Info: mocks.SymlinkInfo("broken")},
	)
	fs.Files["/proj/link.txt"] = []byte("target")
	fs.Stats["/proj/dirlink"] = mocks.DirInfo("dirlink")

	paths, errs := collect(t, NewScanner(fs), context.Background(), "/proj", "")

	if diff := cmp.Diff([]string{"/proj/link.txt"}, paths); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}
	if len(errs) != 1 || !errors.Is(errs[0], os.ErrNotExist) {
		t.Errorf("expected one not-exist error for the broken link, got %v", errs)
	}
}

func TestScanCancelled(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/proj")
	fs.AddFile("/proj/a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths, errs := collect(t, NewScanner(fs), ctx, "/proj", "")
	if len(paths) != 0 {
		t.Errorf("expected no candidates, got %v", paths)
	}
	if len(errs) != 1 || !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", errs)
	}
}

func TestScanStopsWhenConsumerBreaks(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.AddDir("/proj")
	fs.AddFile("/proj/a.txt", "a")
	fs.AddFile("/proj/b.txt", "b")

	seen := 0
	for range NewScanner(fs).Scan(context.Background(), "/proj", "") {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("seen = %d, expected 1", seen)
	}
}
