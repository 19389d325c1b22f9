//go:build !windows

package walker

import (
	"os"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// Prober is a best-effort stand-in used only so this package compiles
// on non-Windows development hosts; the real NTFS-aware prober is
// prober_windows.go.
type Prober struct{}

// NewProber returns the portable Prober.
func NewProber() *Prober { return &Prober{} }

func (p *Prober) ProbeEntry(path string, isDir bool) (linktypes.LinkRecord, bool) {
	target, err := os.Readlink(path)
	if err != nil {
		return linktypes.LinkRecord{}, false
	}
	kind := linktypes.Symlink
	if isDir {
		kind = linktypes.Junction
	}
	return linktypes.LinkRecord{Path: path, Target: target, Kind: kind, Status: linktypes.OkStatus}, true
}
