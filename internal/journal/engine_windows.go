//go:build windows

package journal

import "github.com/ivoronin/linkctl/internal/linktypes"

// Engine adapts Reader.Scan to scanner.JournalEngine's single-argument
// shape, binding the tag/hard-link collaborators once at construction.
type Engine struct {
	reader *Reader
	tags   TagReader
	probe  HardlinkProber
}

// NewEngine builds a scanner.JournalEngine-compatible wrapper around
// an already-open volume Reader.
func NewEngine(reader *Reader, tags TagReader, probe HardlinkProber) *Engine {
	return &Engine{reader: reader, tags: tags, probe: probe}
}

func (e *Engine) Scan(driveRoot string) ([]linktypes.LinkRecord, error) {
	return e.reader.Scan(driveRoot, e.tags, e.probe)
}
