//go:build windows

package journal

import (
	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/hardlink"
	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/reparse"
	"github.com/ivoronin/linkctl/internal/volio"
)

// PathTagReader opens each path on demand to satisfy TagReader,
// bridging the handle-based reparse.Classify to the forest walk's
// path-based classification (spec.md §4.5 step 5).
type PathTagReader struct{}

func (PathTagReader) ClassifyPath(path string) (linktypes.Kind, string, error) {
	h, err := volio.OpenFile(path, false)
	if err != nil {
		return linktypes.Symlink, "", errors.Wrapf(err, "open %q", path)
	}
	defer h.Close()

	kind, err := reparse.Classify(h)
	if err != nil {
		return linktypes.Symlink, "", errors.Wrapf(err, "classify reparse tag %q", path)
	}

	return kind, reparse.ReadTarget(path), nil
}

// PathHardlinkProber opens each path on demand to satisfy
// HardlinkProber.
type PathHardlinkProber struct{}

func (PathHardlinkProber) ProbePath(path string) (hardlink.Info, error) {
	h, err := volio.OpenFile(path, true)
	if err != nil {
		return hardlink.Info{}, errors.Wrapf(err, "open %q", path)
	}
	defer h.Close()

	return hardlink.Probe(h)
}
