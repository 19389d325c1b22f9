//go:build windows

package volio

import (
	"strings"
	"syscall"

	"github.com/Microsoft/go-winio"
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// winHandle adapts an OS handle to handleImpl. Exactly one of f/h is
// set: f for handles opened through go-winio's *os.File-returning
// helpers (OpenVolume), h for handles opened directly via CreateFile
// (OpenFile, which needs FILE_FLAG_OPEN_REPARSE_POINT — a flag
// OpenForBackup does not expose). Closing always goes through the
// owning representation so no handle is ever closed twice.
type winHandle struct {
	h windows.Handle
	f syscallFile
}

// syscallFile narrows the *os.File interface to what Close/Fd need,
// avoiding an import of "os" purely for a field type.
type syscallFile interface {
	Close() error
	Fd() uintptr
}

func (w *winHandle) Close() error {
	if w == nil {
		return nil
	}
	if w.f != nil {
		err := w.f.Close()
		w.f = nil
		return err
	}
	if w.h == windows.InvalidHandle || w.h == 0 {
		return nil
	}
	err := windows.CloseHandle(w.h)
	w.h = windows.InvalidHandle
	return err
}

// Raw returns the underlying OS handle for use by packages that issue
// DeviceIoControl/GetFileInformationByHandle calls (reparse, hardlink,
// journal).
func (h *Handle) Raw() windows.Handle {
	if h == nil || h.impl == nil {
		return windows.InvalidHandle
	}
	wh, ok := h.impl.(*winHandle)
	if !ok {
		return windows.InvalidHandle
	}
	if wh.f != nil {
		return windows.Handle(wh.f.Fd())
	}
	return wh.h
}

const sharedReadWriteDelete = windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE | windows.FILE_SHARE_DELETE

// OpenVolume opens a named-volume device (e.g. `\\.\C:`) for reading
// metadata, via go-winio's OpenForBackup — the same safe-open-with-
// backup-semantics helper hcsshim's internal/safefile uses for NTFS
// metadata reads that must not trip ordinary sharing-violation or
// permission checks.
func OpenVolume(drive string) (*Handle, error) {
	path := `\\.\` + strings.TrimSuffix(drive, `\`)
	f, err := winio.OpenForBackup(path, syscall.GENERIC_READ,
		syscall.FILE_SHARE_READ|syscall.FILE_SHARE_WRITE|syscall.FILE_SHARE_DELETE,
		syscall.OPEN_EXISTING)
	if err != nil {
		return nil, errors.Wrapf(err, "open volume %q", path)
	}
	return &Handle{impl: &winHandle{f: f}}, nil
}

// OpenFile opens path with read access, shared read/write/delete,
// open-existing, and the flag set required to read directory metadata
// and reparse points without traversing them.
func OpenFile(path string, followReparse bool) (*Handle, error) {
	attrs := uint32(windows.FILE_FLAG_BACKUP_SEMANTICS)
	if !followReparse {
		attrs |= windows.FILE_FLAG_OPEN_REPARSE_POINT
	}
	return openPath(path, attrs)
}

func openPath(path string, attrs uint32) (*Handle, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, errors.Wrapf(err, "encode path %q", path)
	}

	h, err := windows.CreateFile(
		p,
		windows.GENERIC_READ,
		sharedReadWriteDelete,
		nil,
		windows.OPEN_EXISTING,
		attrs,
		0,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "open %q", path)
	}
	if h == windows.InvalidHandle {
		return nil, errors.Errorf("open %q: invalid handle", path)
	}

	return &Handle{impl: &winHandle{h: h}}, nil
}

// Valid reports whether h holds a non-null, non-sentinel handle.
func Valid(h *Handle) bool {
	if h == nil || h.impl == nil {
		return false
	}
	wh, ok := h.impl.(*winHandle)
	if !ok {
		return false
	}
	if wh.f != nil {
		return true
	}
	return wh.h != windows.InvalidHandle && wh.h != 0
}
