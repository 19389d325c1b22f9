package journal

import (
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

func TestReconstructSimpleChain(t *testing.T) {
	forest := NewForest()
	forest.Insert(1, linktypes.FileRefNode{Parent: 1, Name: ""}) // root, self-parent
	forest.Insert(2, linktypes.FileRefNode{Parent: 1, Name: "data"})
	forest.Insert(3, linktypes.FileRefNode{Parent: 2, Name: "link.txt"})

	r := NewReconstructor(forest, `C:\`)
	got, err := r.Reconstruct(3)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if want := `C:\data\link.txt`; got != want {
		t.Errorf("Reconstruct(3) = %q, want %q", got, want)
	}
}

func TestReconstructRootCacheHitNoDoubleSeparator(t *testing.T) {
	forest := NewForest()
	forest.Insert(1, linktypes.FileRefNode{Parent: 1, Name: ""}) // root, self-parent
	forest.Insert(2, linktypes.FileRefNode{Parent: 1, Name: "data"})
	forest.Insert(3, linktypes.FileRefNode{Parent: 2, Name: "link.txt"})

	r := NewReconstructor(forest, `C:\`)
	// Caching the root first (as can happen when Reader.Scan walks
	// forest.Refs() in map-iteration order) must not leave a stray
	// separator when a later Reconstruct hits that cached root.
	if _, err := r.Reconstruct(1); err != nil {
		t.Fatalf("Reconstruct(1): %v", err)
	}
	got, err := r.Reconstruct(3)
	if err != nil {
		t.Fatalf("Reconstruct(3): %v", err)
	}
	if want := `C:\data\link.txt`; got != want {
		t.Errorf("Reconstruct(3) = %q, want %q", got, want)
	}
}

func TestReconstructMemoizes(t *testing.T) {
	forest := NewForest()
	forest.Insert(1, linktypes.FileRefNode{Parent: 1, Name: ""})
	forest.Insert(2, linktypes.FileRefNode{Parent: 1, Name: "data"})

	r := NewReconstructor(forest, `C:\`)
	first, err := r.Reconstruct(2)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	cached, ok := r.cache[2]
	if !ok || cached != first {
		t.Errorf("expected memoized cache entry %q, got %q (ok=%v)", first, cached, ok)
	}
}

func TestReconstructMissingParentStops(t *testing.T) {
	forest := NewForest()
	forest.Insert(5, linktypes.FileRefNode{Parent: 99, Name: "orphan.txt"})

	r := NewReconstructor(forest, `C:\`)
	got, err := r.Reconstruct(5)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if want := `C:\orphan.txt`; got != want {
		t.Errorf("Reconstruct(5) = %q, want %q", got, want)
	}
}

func TestReconstructDepthBoundDetectsCycle(t *testing.T) {
	forest := NewForest()
	// a <-> b parent cycle, neither self-parented nor zero-parented.
	forest.Insert(1, linktypes.FileRefNode{Parent: 2, Name: "a"})
	forest.Insert(2, linktypes.FileRefNode{Parent: 1, Name: "b"})

	r := NewReconstructor(forest, `C:\`)
	if _, err := r.Reconstruct(1); err == nil {
		t.Fatal("expected depth-bound error on cyclic parent chain")
	}
}
