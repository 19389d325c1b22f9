//go:build windows

package linkdetail

import (
	"os"
	"syscall"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// platformCreationTime reads NTFS creation time from the
// syscall.Win32FileAttributeData Go populates on os.Lstat (spec.md §3
// / details.rs iso_time).
func platformCreationTime(info os.FileInfo) (time.Time, bool) {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, sys.CreationTime.Nanoseconds()), true
}

// attributesOf maps Win32 file attribute bits to the fixed Attr
// bitmask (spec.md §3 / details.rs map_attributes).
func attributesOf(info os.FileInfo) linktypes.Attr {
	sys, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return linktypes.AttrNormal
	}

	var attr linktypes.Attr
	if sys.FileAttributes&syscall.FILE_ATTRIBUTE_READONLY != 0 {
		attr |= linktypes.AttrReadOnly
	}
	if sys.FileAttributes&syscall.FILE_ATTRIBUTE_HIDDEN != 0 {
		attr |= linktypes.AttrHidden
	}
	if sys.FileAttributes&syscall.FILE_ATTRIBUTE_SYSTEM != 0 {
		attr |= linktypes.AttrSystem
	}
	if sys.FileAttributes&syscall.FILE_ATTRIBUTE_ARCHIVE != 0 {
		attr |= linktypes.AttrArchive
	}
	if sys.FileAttributes&syscall.FILE_ATTRIBUTE_REPARSE_POINT != 0 {
		attr |= linktypes.AttrReparsePoint
	}
	if attr == 0 {
		return linktypes.AttrNormal
	}
	return attr
}
