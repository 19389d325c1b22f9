//go:build windows

package hardlink

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/ivoronin/linkctl/internal/volio"
)

// volumeRelative strips the volume name from p and normalizes
// separators, giving the `\dir\name` form in which the OS lists
// hard-link names.
func volumeRelative(p string) string {
	p = strings.ReplaceAll(p, "/", `\`)
	return strings.TrimPrefix(p, filepath.VolumeName(p))
}

// Probe returns (volume-serial, file-index, link-count) for an
// already-open handle via GetFileInformationByHandle (spec.md §4.4).
func Probe(h *volio.Handle) (Info, error) {
	var fi windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(h.Raw(), &fi); err != nil {
		return Info{}, errors.Wrap(err, "GetFileInformationByHandle")
	}

	fileIndex := uint64(fi.FileIndexHigh)<<32 | uint64(fi.FileIndexLow)

	return Info{
		Key:       Key{VolumeSerial: fi.VolumeSerialNumber, FileIndex: fileIndex},
		LinkCount: fi.NumberOfLinks,
	}, nil
}

// Siblings enumerates every hard-link name for path via
// FindFirstFileNameW/FindNextFileNameW (the OS hard-link enumeration
// control preferred in DESIGN.md Open Question 2 over shelling out to
// fsutil), discards the query path itself case-insensitively, and
// returns the remaining candidates relative to the volume root.
func Siblings(path string) ([]string, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, errors.Wrapf(err, "encode path %q", path)
	}

	var bufLen uint32 = 1024
	buf := make([]uint16, bufLen)

	h, err := windows.FindFirstFileNameW(p, 0, &bufLen, &buf[0])
	if err != nil {
		if bufLen > uint32(len(buf)) {
			buf = make([]uint16, bufLen)
			h, err = windows.FindFirstFileNameW(p, 0, &bufLen, &buf[0])
		}
		if err != nil {
			return nil, errors.Wrapf(err, "FindFirstFileNameW %q", path)
		}
	}
	defer windows.FindClose(h)

	var names []string
	self := strings.ToLower(volumeRelative(path))
	for {
		name := windows.UTF16ToString(buf)
		if strings.ToLower(volumeRelative(name)) != self {
			names = append(names, name)
		}

		bufLen = uint32(len(buf))
		err = windows.FindNextFileNameW(h, &bufLen, &buf[0])
		if err != nil {
			if errors.Is(err, windows.ERROR_MORE_DATA) {
				buf = make([]uint16, bufLen)
				err = windows.FindNextFileNameW(h, &bufLen, &buf[0])
				if err == nil {
					continue
				}
			}
			break
		}
	}

	return names, nil
}

// SiblingsViaFsutil is a locale-dependent fallback that shells out to
// `fsutil hardlink list`, kept behind the same call shape as Siblings
// for completeness (spec.md §4.4/§9). Prefer Siblings.
func SiblingsViaFsutil(run func(name string, args ...string) ([]byte, error), path string) ([]string, error) {
	out, err := run("fsutil", "hardlink", "list", path)
	if err != nil {
		return nil, errors.Wrapf(err, "fsutil hardlink list %q", path)
	}

	var names []string
	self := strings.ToLower(volumeRelative(path))
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(strings.TrimSpace(line), "\r")
		if line == "" || strings.ToLower(volumeRelative(line)) == self {
			continue
		}
		names = append(names, line)
	}
	return names, nil
}
