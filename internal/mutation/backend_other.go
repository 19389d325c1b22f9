//go:build !windows

package mutation

import (
	"os"
	"path/filepath"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// posixBackend is a best-effort stand-in used only so this package
// (and its platform-independent tests) compile on non-Windows
// development hosts; it has no NTFS reparse-point or journal
// awareness and is never the production backend.
type posixBackend struct{}

// NewBackend returns the Windows Backend; elsewhere it returns this
// portability shim.
func NewBackend() Backend { return posixBackend{} }

func (posixBackend) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (posixBackend) TargetIsDirectory(target string) bool {
	fi, err := os.Stat(target)
	return err == nil && fi.IsDir()
}

func (posixBackend) MkdirAll(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

func (posixBackend) CreateSymlink(link, target string, _ bool) error {
	return os.Symlink(target, link)
}

func (posixBackend) CreateJunction(link, target string) error {
	return os.Symlink(target, link)
}

func (posixBackend) CreateHardlink(link, target string) error {
	return os.Link(target, link)
}

func (posixBackend) Delete(path string) error {
	return os.RemoveAll(path)
}

func (posixBackend) CurrentKindAndTarget(path string) (linktypes.Kind, string, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return linktypes.Symlink, "", err
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		return linktypes.Hardlink, "", nil
	}
	target, err := os.Readlink(path)
	if err != nil {
		return linktypes.Symlink, "", err
	}
	kind := linktypes.Symlink
	if ti, err := os.Stat(filepath.Join(filepath.Dir(path), target)); err == nil && ti.IsDir() {
		kind = linktypes.Junction
	}
	return kind, target, nil
}
