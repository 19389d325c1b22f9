// Package testutil provides t.TempDir()-based fixtures for building
// small link trees in tests, replacing the teacher's Docker-backed
// internal/testfs harness (which had no Windows-container analogue;
// see DESIGN.md).
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Tree is a directory rooted at t.TempDir() used to assemble a small
// filesystem fixture.
type Tree struct {
	t    *testing.T
	Root string
}

// NewTree creates an empty Tree rooted at a fresh temp directory.
func NewTree(t *testing.T) *Tree {
	t.Helper()
	return &Tree{t: t, Root: t.TempDir()}
}

// Path joins rel onto the tree's root.
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.Root, rel)
}

// Mkdir creates a directory (and its parents) at rel.
func (tr *Tree) Mkdir(rel string) string {
	tr.t.Helper()
	p := tr.Path(rel)
	if err := os.MkdirAll(p, 0o755); err != nil {
		tr.t.Fatalf("mkdir %q: %v", p, err)
	}
	return p
}

// File creates a regular file at rel with the given contents.
func (tr *Tree) File(rel, contents string) string {
	tr.t.Helper()
	p := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		tr.t.Fatalf("mkdir parent of %q: %v", p, err)
	}
	if err := os.WriteFile(p, []byte(contents), 0o644); err != nil {
		tr.t.Fatalf("write %q: %v", p, err)
	}
	return p
}

// Symlink creates a symlink at rel pointing at target (which may be
// relative to rel's directory).
func (tr *Tree) Symlink(target, rel string) string {
	tr.t.Helper()
	p := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		tr.t.Fatalf("mkdir parent of %q: %v", p, err)
	}
	if err := os.Symlink(target, p); err != nil {
		tr.t.Skipf("symlink creation unsupported in this environment: %v", err)
	}
	return p
}

// Hardlink creates a hard link at rel pointing at an existing file.
func (tr *Tree) Hardlink(existingRel, rel string) string {
	tr.t.Helper()
	p := tr.Path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		tr.t.Fatalf("mkdir parent of %q: %v", p, err)
	}
	if err := os.Link(tr.Path(existingRel), p); err != nil {
		tr.t.Skipf("hardlink creation unsupported in this environment: %v", err)
	}
	return p
}

// AssertExists fails the test if rel does not exist.
func (tr *Tree) AssertExists(rel string) {
	tr.t.Helper()
	if _, err := os.Lstat(tr.Path(rel)); err != nil {
		tr.t.Errorf("expected %q to exist: %v", rel, err)
	}
}

// AssertNotExists fails the test if rel exists.
func (tr *Tree) AssertNotExists(rel string) {
	tr.t.Helper()
	if _, err := os.Lstat(tr.Path(rel)); err == nil {
		tr.t.Errorf("expected %q not to exist", rel)
	}
}
