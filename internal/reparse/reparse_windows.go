//go:build windows

package reparse

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/volio"
)

// maxReparseBuffer matches MAXIMUM_REPARSE_DATA_BUFFER_SIZE.
const maxReparseBuffer = 16 * 1024

// Classify issues FSCTL_GET_REPARSE_POINT against an already-open
// handle (opened without following the reparse point) and decodes the
// tag.
func Classify(h *volio.Handle) (linktypes.Kind, error) {
	buf := make([]byte, maxReparseBuffer)
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		h.Raw(),
		windows.FSCTL_GET_REPARSE_POINT,
		nil, 0,
		&buf[0], uint32(len(buf)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		return linktypes.Symlink, errors.Wrap(err, "FSCTL_GET_REPARSE_POINT")
	}

	return DecodeTag(buf[:bytesReturned])
}

// ReadTarget returns the stored target string for a symlink or
// junction, best-effort: empty on failure (spec.md §4.5).
func ReadTarget(path string) string {
	target, err := os.Readlink(path)
	if err != nil {
		return ""
	}
	return target
}
