package journal

import (
	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
)

// fileAttributeReparsePoint and fileAttributeDirectory mirror the
// Win32 FILE_ATTRIBUTE_* constants carried on every USN record
// (spec.md §4.5 step 5); duplicated here rather than imported from
// golang.org/x/sys/windows so this file stays buildable on every
// platform for testing.
const (
	fileAttributeReadonly     = 0x00000001
	fileAttributeDirectory    = 0x00000010
	fileAttributeReparsePoint = 0x00000400
)

// TagReader resolves the reparse tag and stored target for an
// already-reconstructed path. It is satisfied by reparse.Classify
// fed a volio.Handle opened on path, kept as an interface here so
// this file never imports volio or golang.org/x/sys/windows directly.
type TagReader interface {
	ClassifyPath(path string) (linktypes.Kind, string, error)
}

// HardlinkProber probes (volume-serial, file-index, link-count) for a
// path, satisfied by hardlink.Probe fed a handle opened on path.
type HardlinkProber interface {
	ProbePath(path string) (hardlink.Info, error)
}

// Classifier turns a reconstructed forest node into a LinkRecord,
// following spec.md §4.5 step 5's dispatch: reparse points are
// classified by tag, non-directories with link-count > 1 and a new
// (volume-serial, file-index) pair become Hardlink entries, and
// everything else is skipped.
type Classifier struct {
	Tags      TagReader
	Hardlinks HardlinkProber
	Seen      hardlink.SeenSet
}

// NewClassifier builds a Classifier with a fresh per-scan SeenSet.
func NewClassifier(tags TagReader, prober HardlinkProber) *Classifier {
	return &Classifier{Tags: tags, Hardlinks: prober, Seen: make(hardlink.SeenSet)}
}

// Classify inspects a single reconstructed node and returns the
// resulting LinkRecord, or ok == false if the node is neither a
// reparse point nor a newly-seen hard link.
func (c *Classifier) Classify(path string, attrs uint32) (linktypes.LinkRecord, bool, error) {
	if attrs&fileAttributeReparsePoint != 0 {
		kind, target, err := c.Tags.ClassifyPath(path)
		if err != nil {
			return linktypes.LinkRecord{
				Path:   path,
				Kind:   kind,
				Status: linktypes.AccessDeniedStatus,
			}, true, nil
		}
		return linktypes.LinkRecord{
			Path:   path,
			Target: target,
			Kind:   kind,
			Status: linktypes.OkStatus,
		}, true, nil
	}

	if attrs&fileAttributeDirectory != 0 {
		return linktypes.LinkRecord{}, false, nil
	}

	info, err := c.Hardlinks.ProbePath(path)
	if err != nil {
		return linktypes.LinkRecord{}, false, nil
	}
	if !info.Linked() {
		return linktypes.LinkRecord{}, false, nil
	}
	if !c.Seen.MarkIfNew(info.Key) {
		return linktypes.LinkRecord{}, false, nil
	}

	return linktypes.LinkRecord{
		Path:   path,
		Kind:   linktypes.Hardlink,
		Status: linktypes.OkStatus,
	}, true, nil
}
