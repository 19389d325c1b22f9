package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// fakeProber reports every entry whose base name is in linkNames as a
// Symlink and everything else as not a link, simulating reparse-point
// probing without touching real OS link state (the real Windows path
// is prober_windows.go).
type fakeProber struct {
	linkNames map[string]bool
}

func (f fakeProber) ProbeEntry(path string, isDir bool) (linktypes.LinkRecord, bool) {
	if !f.linkNames[filepath.Base(path)] {
		return linktypes.LinkRecord{}, false
	}
	return linktypes.LinkRecord{Path: path, Kind: linktypes.Symlink, Status: linktypes.OkStatus}, true
}

func TestWalkerFindsNestedLinks(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "sub"))
	mustTouch(t, filepath.Join(root, "sub", "link.txt"))
	mustTouch(t, filepath.Join(root, "plain.txt"))

	prober := fakeProber{linkNames: map[string]bool{"link.txt": true}}
	w := New(root, nil, 4, false, prober, nil)

	results := w.Run(context.Background())
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}
	if results[0].Path != filepath.Join(root, "sub", "link.txt") {
		t.Errorf("unexpected path %q", results[0].Path)
	}
}

func TestWalkerExcludes(t *testing.T) {
	root := t.TempDir()
	mustMkdir(t, filepath.Join(root, "archives"))
	mustTouch(t, filepath.Join(root, "archives", "link.txt"))
	mustTouch(t, filepath.Join(root, "link.txt"))

	prober := fakeProber{linkNames: map[string]bool{"link.txt": true}}
	w := New(root, []string{filepath.Join(root, "archives")}, 4, false, prober, nil)

	results := w.Run(context.Background())
	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)

	if len(paths) != 1 || paths[0] != filepath.Join(root, "link.txt") {
		t.Fatalf("got %v, want only root-level link.txt", paths)
	}
}

func TestWalkerReportsDirectoryErrors(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "does-not-exist")

	errCh := make(chan error, 1)
	prober := fakeProber{}
	w := New(missing, nil, 4, false, prober, errCh)

	w.Run(context.Background())
	select {
	case err := <-errCh:
		if err == nil {
			t.Fatal("expected non-nil error")
		}
	default:
		t.Fatal("expected an error on errCh for a missing root")
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustTouch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}
