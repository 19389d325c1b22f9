//go:build windows

package walker

import (
	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/reparse"
	"github.com/ivoronin/linkctl/internal/volio"
)

// Prober is the real EntryProber: reparse points are classified by
// tag, non-directory entries are probed for their hard-link count the
// same way the journal fast path does (spec.md §4.4/§4.6).
type Prober struct {
	Seen hardlink.SeenSet
}

// NewProber returns a Prober with a fresh per-scan SeenSet.
func NewProber() *Prober {
	return &Prober{Seen: make(hardlink.SeenSet)}
}

func (p *Prober) ProbeEntry(path string, isDir bool) (linktypes.LinkRecord, bool) {
	h, err := volio.OpenFile(path, false)
	if err != nil {
		return linktypes.LinkRecord{}, false
	}
	defer h.Close()

	kind, err := reparse.Classify(h)
	if err == nil {
		return linktypes.LinkRecord{
			Path:   path,
			Target: reparse.ReadTarget(path),
			Kind:   kind,
			Status: linktypes.OkStatus,
		}, true
	}

	if isDir {
		return linktypes.LinkRecord{}, false
	}

	info, err := hardlink.Probe(h)
	if err != nil || !info.Linked() {
		return linktypes.LinkRecord{}, false
	}
	if !p.Seen.MarkIfNew(info.Key) {
		return linktypes.LinkRecord{}, false
	}

	return linktypes.LinkRecord{Path: path, Kind: linktypes.Hardlink, Status: linktypes.OkStatus}, true
}
