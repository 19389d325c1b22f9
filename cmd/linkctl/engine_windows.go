//go:build windows

package main

import (
	"github.com/ivoronin/linkctl/internal/journal"
	"github.com/ivoronin/linkctl/internal/scanner"
	"github.com/ivoronin/linkctl/internal/volio"
)

// newJournalEngine opens driveRoot's volume device and wraps it as a
// scanner.JournalEngine. The returned close func must be called once
// the scan is complete, regardless of outcome.
func newJournalEngine(driveRoot string) (scanner.JournalEngine, func() error, error) {
	vol, err := volio.OpenVolume(driveRoot)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	engine := journal.NewEngine(journal.NewReader(vol), journal.PathTagReader{}, journal.PathHardlinkProber{})
	return engine, vol.Close, nil
}
