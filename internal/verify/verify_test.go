package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdonaldj/vszipper/internal/adapters/osfs"
	"github.com/mcdonaldj/vszipper/internal/adapters/ziparchiver"
	"github.com/mcdonaldj/vszipper/internal/mocks"
	"github.com/mcdonaldj/vszipper/internal/ports"
	"github.com/mcdonaldj/vszipper/internal/zipper"
)

func info(content string) ports.FileInfo {
	return ports.FileInfo{Size: int64(len(content)), CRC32: crc32.ChecksumIEEE([]byte(content))}
}

func TestVerifyWithMocks(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Files["/out/p.zip"] = []byte("zipdata")
	fs.Files["/proj/a.txt"] = []byte("alpha")
	fs.Files["/proj/src/b.cs"] = []byte("changed")

	archiver := mocks.NewMockArchiver()
	archiver.ListResults["/out/p.zip"] = map[string]ports.FileInfo{
		"a.txt":    info("alpha"),
		"src/b.cs": info("original"),
		"gone.txt": info("bye"),
	}

	report, err := NewService(fs, archiver).Verify("/out/p.zip", "/proj")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if report.Checked != 3 {
		t.Errorf("Checked = %d, expected 3", report.Checked)
	}
	if diff := cmp.Diff([]string{"src/b.cs"}, report.Mismatched); diff != "" {
		t.Errorf("mismatched (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gone.txt"}, report.Missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
	if report.OK() {
		t.Error("report with differences should not be OK")
	}

	sum := sha256.Sum256([]byte("zipdata"))
	if report.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("SHA256 = %s", report.SHA256)
	}
}

func TestVerifyArchiveUnreadable(t *testing.T) {
	archiver := mocks.NewMockArchiver()
	archiver.Errors["List"] = errors.New("zip: not a valid zip file")

	if _, err := NewService(mocks.NewMockFileSystem(), archiver).Verify("/x.zip", "/proj"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestVerifySourceReadError(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Files["/out/p.zip"] = []byte("zip")
	fs.Errors["/proj/a.txt"] = os.ErrPermission

	archiver := mocks.NewMockArchiver()
	archiver.ListResults["/out/p.zip"] = map[string]ports.FileInfo{"a.txt": info("a")}

	_, err := NewService(fs, archiver).Verify("/out/p.zip", "/proj")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

// A freshly written archive verifies clean against its own source tree.
func TestVerifyRoundTripOnDisk(t *testing.T) {
	root := t.TempDir()
	for rel, content := range map[string]string{
		"App.sln":     "sln",
		"src/main.cs": "class P {}",
		"bin/x.dll":   "MZ",
	} {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	fs := osfs.New()
	clock := mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	z := zipper.New(fs, ziparchiver.New(), zipper.NewNameResolver(fs, clock), zipper.Options{Exclusions: []string{"/bin/"}})

	res, err := z.ZipDefault(context.Background(), root)
	if err != nil {
		t.Fatalf("ZipDefault failed: %v", err)
	}

	report, err := NewDefaultService().Verify(res.OutputPath, root)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !report.OK() || report.Checked != 2 {
		t.Errorf("expected a clean report of 2 entries, got %+v", report)
	}

	if err := os.WriteFile(filepath.Join(root, "src", "main.cs"), []byte("class Q {}"), 0644); err != nil {
		t.Fatal(err)
	}
	report, err = NewDefaultService().Verify(res.OutputPath, root)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if diff := cmp.Diff([]string{"src/main.cs"}, report.Mismatched); diff != "" {
		t.Errorf("mismatched (-want +got):\n%s", diff)
	}
}
