// Package scanner orchestrates a single drive scan: normalize the
// drive specifier, attempt the USN-journal fast path, and silently
// fall back to the tree walker on any failure (spec.md §4.7).
//
// The side-channel shape — a progress snapshot channel plus a
// fixed-size batch channel alongside the terminating result — mirrors
// ivoronin-dupedog's internal/scanner.Scanner, whose collector
// goroutine and atomic stats counters this package reuses in spirit
// even though the underlying engines (journal, walker) differ.
package scanner

import (
	"context"

	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/pathutil"
)

// defaultBatchSize bounds every ScanBatch emitted mid-scan; a smaller
// final batch is always flushed regardless of size (spec.md §4.7).
const defaultBatchSize = 256

// JournalEngine runs the USN-journal fast path for a normalized drive
// root, returning every link record it discovers. Implemented by
// journal.Engine on Windows.
type JournalEngine interface {
	Scan(driveRoot string) ([]linktypes.LinkRecord, error)
}

// WalkEngine runs the tree-walk fallback, rooted and configured with
// excludes at construction time. Implemented by walker.Walker.
type WalkEngine interface {
	Run(ctx context.Context) []linktypes.LinkRecord
}

// WalkEngineFactory builds a WalkEngine rooted at root with the given
// excludes, deferred until the journal engine has failed so a walker
// is never constructed (and its goroutines never spawned) on the
// common fast-path-succeeds case.
type WalkEngineFactory func(root string, excludes []string) WalkEngine

// Scanner coordinates one drive scan (spec.md §4.7). It is single-use:
// construct with New, call Run once.
type Scanner struct {
	journal    JournalEngine
	newWalk    WalkEngineFactory
	excludes   []string
	progressCh chan<- linktypes.ScanProgress
	batchCh    chan<- linktypes.ScanBatch
}

// New creates a Scanner. progressCh and batchCh may be nil; if so,
// those side-channel emissions are skipped.
func New(journal JournalEngine, newWalk WalkEngineFactory, excludes []string, progressCh chan<- linktypes.ScanProgress, batchCh chan<- linktypes.ScanBatch) *Scanner {
	return &Scanner{
		journal:    journal,
		newWalk:    newWalk,
		excludes:   excludes,
		progressCh: progressCh,
		batchCh:    batchCh,
	}
}

// Run normalizes drive, attempts the journal engine, falls back to
// the walk engine on any journal failure, and returns the terminating
// ScanResult. Every emitted batch is a disjoint subset of the returned
// entries, and their union equals it (spec.md §4.7).
func (s *Scanner) Run(ctx context.Context, drive string) (linktypes.ScanResult, error) {
	root, err := pathutil.Normalize(drive)
	if err != nil {
		return linktypes.ScanResult{}, err
	}

	entries, mode, err := s.scanEntries(ctx, root)
	if err != nil {
		return linktypes.ScanResult{}, err
	}

	s.emitBatches(ctx, entries)
	s.emitProgress(ctx, int64(len(entries)), int64(len(entries)), "")

	return linktypes.ScanResult{Entries: entries, Mode: mode}, nil
}

// scanEntries attempts the journal engine first; any error (privilege
// denied, journal missing, device error) triggers a silent fallback
// to the tree walker (spec.md §4.7).
func (s *Scanner) scanEntries(ctx context.Context, root string) ([]linktypes.LinkRecord, linktypes.ScanMode, error) {
	if s.journal != nil {
		entries, err := s.journal.Scan(root)
		if err == nil {
			return entries, linktypes.ModeUsnJournal, nil
		}
	}

	if s.newWalk == nil {
		return nil, linktypes.ModeWalkdirFallback, nil
	}
	walk := s.newWalk(root, s.excludes)
	entries := walk.Run(ctx)
	return entries, linktypes.ModeWalkdirFallback, nil
}

func (s *Scanner) emitBatches(ctx context.Context, entries []linktypes.LinkRecord) {
	if s.batchCh == nil {
		return
	}
	for i := 0; i < len(entries); i += defaultBatchSize {
		end := i + defaultBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		select {
		case <-ctx.Done():
			return
		case s.batchCh <- linktypes.ScanBatch{Entries: entries[i:end]}:
		}
	}
}

func (s *Scanner) emitProgress(ctx context.Context, scanned, found int64, currentPath string) {
	if s.progressCh == nil {
		return
	}
	select {
	case <-ctx.Done():
	case s.progressCh <- linktypes.ScanProgress{Scanned: scanned, Found: found, CurrentPath: currentPath}:
	}
}
