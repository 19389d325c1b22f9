//go:build windows

package linkdetail

import (
	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/reparse"
	"github.com/ivoronin/linkctl/internal/volio"
)

// Inspect classifies a single path the same way details.rs's
// detect_link_type does: reparse points are tagged by reparse tag,
// and a plain file with more than one hard link is tagged Hardlink.
// Unlike walker.Prober.ProbeEntry, Inspect never returns false — a
// path that is neither is still returned as a bare LinkRecord so
// Enrich can report it rather than the detail command failing.
func Inspect(path string) linktypes.LinkRecord {
	h, err := volio.OpenFile(path, false)
	if err != nil {
		return linktypes.LinkRecord{Path: path}
	}
	defer h.Close()

	if kind, err := reparse.Classify(h); err == nil {
		return linktypes.LinkRecord{Path: path, Target: reparse.ReadTarget(path), Kind: kind}
	}

	if info, err := hardlink.Probe(h); err == nil && info.Linked() {
		return linktypes.LinkRecord{Path: path, Kind: linktypes.Hardlink}
	}

	return linktypes.LinkRecord{Path: path}
}
