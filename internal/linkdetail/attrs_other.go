//go:build !windows

package linkdetail

import (
	"os"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// platformCreationTime has no portable equivalent outside Windows; the
// real implementation is attrs_windows.go.
func platformCreationTime(os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}

func attributesOf(info os.FileInfo) linktypes.Attr {
	attr := linktypes.AttrNormal
	if info.Mode()&0o200 == 0 {
		attr |= linktypes.AttrReadOnly
	}
	return attr
}
