package zipper

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mcdonaldj/vszipper/internal/mocks"
)

var testTime = time.Date(2024, 3, 9, 14, 5, 7, 987654321, time.Local)

func newTestResolver(entries ...os.DirEntry) (*NameResolver, *mocks.MockClock) {
	fs := mocks.NewMockFileSystem()
	fs.Dirs["/proj"] = entries
	clock := mocks.NewMockClock(testTime)
	return NewNameResolver(fs, clock), clock
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		entries  []os.DirEntry
		expected string
	}{
		{
			name: "solution wins over project",
			entries: []os.DirEntry{
				mocks.DirEntry("Web.csproj", false),
				mocks.DirEntry("App.sln", false),
			},
			expected: "App-20240309140507.zip",
		},
		{
			name: "project when no solution",
			entries: []os.DirEntry{
				mocks.DirEntry("readme.md", false),
				mocks.DirEntry("Lib.csproj", false),
			},
			expected: "Lib-20240309140507.zip",
		},
		{
			name: "first solution in listing order",
			entries: []os.DirEntry{
				mocks.DirEntry("Zeta.sln", false),
				mocks.DirEntry("Alpha.sln", false),
			},
			expected: "Zeta-20240309140507.zip",
		},
		{
			name: "fallback without markers",
			entries: []os.DirEntry{
				mocks.DirEntry("main.go", false),
			},
			expected: "VSZipper-20240309140507.zip",
		},
		{
			name:     "fallback for empty directory",
			entries:  nil,
			expected: "VSZipper-20240309140507.zip",
		},
		{
			name: "directory named like a marker is ignored",
			entries: []os.DirEntry{
				mocks.DirEntry("Tools.sln", true),
				mocks.DirEntry("Tools.fsproj", false),
			},
			expected: "Tools-20240309140507.zip",
		},
		{
			name: "marker extension is case-insensitive",
			entries: []os.DirEntry{
				mocks.DirEntry("Legacy.SLN", false),
			},
			expected: "Legacy-20240309140507.zip",
		},
		{
			name: "bare extension is not a marker",
			entries: []os.DirEntry{
				mocks.DirEntry(".sln", false),
			},
			expected: "VSZipper-20240309140507.zip",
		},
		{
			name: "dotted prefix keeps inner dots",
			entries: []os.DirEntry{
				mocks.DirEntry("Company.Product.sln", false),
			},
			expected: "Company.Product-20240309140507.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(tt.entries...)
			got, err := r.Resolve("/proj")
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Resolve = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestResolveSameSecondIsStable(t *testing.T) {
	r, clock := newTestResolver(mocks.DirEntry("App.sln", false))

	first, err := r.Resolve("/proj")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	clock.Advance(10 * time.Millisecond)
	second, err := r.Resolve("/proj")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if first != second {
		t.Errorf("names differ within one second: %q vs %q", first, second)
	}

	clock.Advance(time.Second)
	third, err := r.Resolve("/proj")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if third == first {
		t.Errorf("name did not change a second later: %q", third)
	}
	if !strings.HasPrefix(third, "App-") || !strings.HasSuffix(third, ".zip") {
		t.Errorf("only the timestamp should change, got %q", third)
	}
}

func TestResolveCustomMarkersAndFallback(t *testing.T) {
	r, _ := newTestResolver(mocks.DirEntry("go.work", false), mocks.DirEntry("App.sln", false))
	r.SolutionMarkers = []string{".work"}
	r.FallbackName = "Unknown"

	got, err := r.Resolve("/proj")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "go-20240309140507.zip" {
		t.Errorf("Resolve = %q", got)
	}

	r2, _ := newTestResolver()
	r2.FallbackName = "Unknown"
	got, err = r2.Prefix("/proj")
	if err != nil {
		t.Fatalf("Prefix failed: %v", err)
	}
	if got != "Unknown" {
		t.Errorf("Prefix = %q, expected Unknown", got)
	}
}

func TestResolveUnreadableRoot(t *testing.T) {
	fs := mocks.NewMockFileSystem()
	fs.Errors["/locked"] = os.ErrPermission
	r := NewNameResolver(fs, mocks.NewMockClock(testTime))

	_, err := r.Resolve("/locked")
	if err == nil {
		t.Fatal("expected an error for an unreadable root")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("error should wrap the cause, got %v", err)
	}
	if ComponentOf(err) != ComponentNameResolver {
		t.Errorf("component = %q, expected %q", ComponentOf(err), ComponentNameResolver)
	}
}
