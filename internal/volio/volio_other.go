//go:build !windows

package volio

import (
	"os"

	"github.com/pkg/errors"
)

// posixHandle is a thin os.File-backed stand-in used only so that
// cross-platform logic (pathutil, actionlog, undo, the tree walker's
// exclusion/dedup rules) compiles and tests off Windows. It carries no
// NTFS reparse/backup semantics — the real implementation lives in
// volio_windows.go.
type posixHandle struct {
	f *os.File
}

func (p *posixHandle) Close() error {
	if p == nil || p.f == nil {
		return nil
	}
	return p.f.Close()
}

// OpenVolume is unsupported off Windows; NTFS volumes do not exist
// there (spec.md Non-goals: cross-volume semantics are NTFS-specific).
func OpenVolume(drive string) (*Handle, error) {
	return nil, errors.New("volio: OpenVolume is only supported on Windows")
}

// OpenFile opens path with os.Open, which follows symlinks;
// followReparse is ignored. This is a portability shim for tests only.
func OpenFile(path string, followReparse bool) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	return &Handle{impl: &posixHandle{f: f}}, nil
}

// Valid reports whether h holds a live handle.
func Valid(h *Handle) bool {
	if h == nil || h.impl == nil {
		return false
	}
	ph, ok := h.impl.(*posixHandle)
	return ok && ph.f != nil
}
