//go:build windows

package mutation

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/reparse"
	"github.com/ivoronin/linkctl/internal/volio"
)

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// winBackend is the real Backend, grounded on golang.org/x/sys/windows
// for CreateFile/CreateSymbolicLink/CreateHardLink/RemoveDirectory/
// DeleteFile (spec.md §6 "OS surface used"); junctions are created by
// invoking `mklink /j` (see CreateJunction).
type winBackend struct{}

// NewBackend returns the Windows Backend.
func NewBackend() Backend { return winBackend{} }

func (winBackend) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (winBackend) TargetIsDirectory(target string) bool {
	fi, err := os.Stat(target)
	return err == nil && fi.IsDir()
}

func (winBackend) MkdirAll(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}

func (winBackend) CreateSymlink(link, target string, isDir bool) error {
	flags := uint32(windows.SYMBOLIC_LINK_FLAG_ALLOW_UNPRIVILEGED_CREATE)
	if isDir {
		flags |= windows.SYMBOLIC_LINK_FLAG_DIRECTORY
	}

	linkPtr, err := windows.UTF16PtrFromString(link)
	if err != nil {
		return errors.Wrapf(err, "encode link path %q", link)
	}
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return errors.Wrapf(err, "encode target path %q", target)
	}

	return windows.CreateSymbolicLink(linkPtr, targetPtr, flags)
}

// CreateJunction invokes the OS utility for junction creation, per
// spec.md §6 ("an OS utility invocation for junction creation").
// mklink /j shells out rather than hand-rolling the reparse-point
// buffer layout, matching the spec's explicit call-out of a utility
// invocation as the chosen mechanism.
func (winBackend) CreateJunction(link, target string) error {
	out, err := runCommand("cmd", "/c", "mklink", "/j", link, target)
	if err != nil {
		return errors.Wrapf(err, "mklink /j %q %q: %s", link, target, out)
	}
	return nil
}

func (winBackend) CreateHardlink(link, target string) error {
	linkPtr, err := windows.UTF16PtrFromString(link)
	if err != nil {
		return errors.Wrapf(err, "encode link path %q", link)
	}
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return errors.Wrapf(err, "encode target path %q", target)
	}
	return windows.CreateHardLink(linkPtr, targetPtr, nil)
}

// Delete removes path, following spec.md §4.8's metadata-without-
// traversal + privileged-fallback pattern: directory-valued entries
// try RemoveDirectory first and fall back to rmdir's utility on
// access-denied (code 5); everything else uses DeleteFile.
func (b winBackend) Delete(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		return errors.Wrapf(err, "lstat %q", path)
	}

	if fi.IsDir() {
		pathPtr, err := windows.UTF16PtrFromString(path)
		if err != nil {
			return errors.Wrapf(err, "encode path %q", path)
		}
		err = windows.RemoveDirectory(pathPtr)
		if isAccessDenied(err) {
			out, ferr := runCommand("cmd", "/c", "rmdir", path)
			if ferr != nil {
				return errors.Wrapf(ferr, "rmdir %q: %s", path, out)
			}
			return nil
		}
		return err
	}

	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return errors.Wrapf(err, "encode path %q", path)
	}
	return windows.DeleteFile(pathPtr)
}

// CurrentKindAndTarget reports a path's current link kind and stored
// target, falling back to a hard-link-count probe when the path is
// not a reparse point at all (mirroring details.rs's detect_link_type
// and walker/prober_windows.go's ProbeEntry dispatch) so callers like
// Engine.doDelete/doRetarget see Hardlink rather than a bare classify
// error for hard-linked files.
func (winBackend) CurrentKindAndTarget(path string) (linktypes.Kind, string, error) {
	h, err := volio.OpenFile(path, false)
	if err != nil {
		return linktypes.Symlink, "", errors.Wrapf(err, "open %q", path)
	}
	defer h.Close()

	kind, err := reparse.Classify(h)
	if err == nil {
		return kind, reparse.ReadTarget(path), nil
	}

	if info, hErr := hardlink.Probe(h); hErr == nil && info.Linked() {
		return linktypes.Hardlink, "", nil
	}

	return linktypes.Symlink, "", errors.Wrapf(err, "classify %q", path)
}

const errorAccessDenied = 5

func isAccessDenied(err error) bool {
	errno, ok := err.(windows.Errno)
	return ok && uint32(errno) == errorAccessDenied
}
