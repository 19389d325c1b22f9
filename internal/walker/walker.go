// Package walker provides the tree-walk fallback scanner (spec.md
// §4.6): a plain recursive directory traversal used when the change
// journal is unavailable or the caller requests it explicitly.
//
// The fan-out/fan-in shape — one goroutine per directory, bounded by a
// semaphore, draining into a single collector goroutine — follows
// ivoronin-dupedog's internal/scanner/scanner.go.
package walker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/pathutil"
	"github.com/ivoronin/linkctl/internal/progress"
)

// EntryProber classifies a single directory entry (a link entry or a
// regular file) and reports whether it is a link, producing its
// LinkRecord. Implemented over real handles on Windows and faked in
// tests.
type EntryProber interface {
	ProbeEntry(path string, isDir bool) (linktypes.LinkRecord, bool)
}

// Walker performs a bounded-concurrency recursive tree walk over one
// root, emitting every link it discovers (spec.md §4.6).
//
// A Walker is single-use: construct with New, call Run once.
type Walker struct {
	root         string
	excludes     []string
	workers      int
	showProgress bool
	prober       EntryProber
	errCh        chan error

	walkerWg  sync.WaitGroup
	walkerSem linktypes.Semaphore
	resultCh  chan linktypes.LinkRecord
	stats     *stats
	bar       *progress.Bar
}

// New creates a Walker rooted at root.
func New(root string, excludes []string, workers int, showProgress bool, prober EntryProber, errCh chan error) *Walker {
	return &Walker{
		root:         root,
		excludes:     excludes,
		workers:      workers,
		showProgress: showProgress,
		prober:       prober,
		errCh:        errCh,
	}
}

type stats struct {
	scanned atomic.Int64
	found   atomic.Int64
}

func (s *stats) String() string {
	return fmt.Sprintf("scanned %d, found %d links", s.scanned.Load(), s.found.Load())
}

// Run walks the tree rooted at w.root and returns every discovered
// link record, respecting ctx cancellation between directories.
func (w *Walker) Run(ctx context.Context) []linktypes.LinkRecord {
	w.walkerSem = linktypes.NewSemaphore(w.workers)
	w.bar = progress.New(w.showProgress, -1)
	w.stats = &stats{}
	w.bar.Describe(w.stats)
	w.resultCh = make(chan linktypes.LinkRecord, 1000)

	var results []linktypes.LinkRecord
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		for r := range w.resultCh {
			results = append(results, r)
		}
		collectorWg.Done()
	}()

	w.walkDirectory(ctx, w.root)

	w.walkerWg.Wait()
	close(w.resultCh)
	collectorWg.Wait()

	w.bar.Finish(w.stats)
	return results
}

// walkDirectory spawns one goroutine per directory, bounded by
// w.walkerSem, mirroring the teacher's "breadth-controlled
// depth-first" traversal.
func (w *Walker) walkDirectory(ctx context.Context, dir string) {
	w.walkerWg.Add(1)
	go func() {
		defer w.walkerWg.Done()

		select {
		case <-ctx.Done():
			return
		default:
		}

		w.walkerSem.Acquire()
		entries, subdirs, err := w.listDirectory(dir)
		w.walkerSem.Release()
		if err != nil {
			w.sendError(err)
			return
		}

		for _, rec := range entries {
			w.resultCh <- rec
			w.stats.found.Add(1)
		}
		w.bar.Describe(w.stats)

		for _, sub := range subdirs {
			w.walkDirectory(ctx, sub)
		}
	}()
}

// listDirectory reads one directory via batched ReadDir, classifying
// reparse points and multiply-linked files and passing directories
// through as further walk roots.
func (w *Walker) listDirectory(dirPath string) (links []linktypes.LinkRecord, subdirs []string, err error) {
	dir, err := os.Open(dirPath)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = dir.Close() }()

	const batchSize = 1000
	for {
		entries, rerr := dir.ReadDir(batchSize)
		if len(entries) == 0 {
			if rerr != nil && rerr != io.EOF {
				return links, subdirs, rerr
			}
			break
		}

		for _, entry := range entries {
			fullPath := filepath.Join(dirPath, entry.Name())
			w.stats.scanned.Add(1)

			if w.shouldExclude(fullPath) {
				continue
			}

			isDir := entry.IsDir()
			info, ierr := entry.Info()
			if ierr != nil {
				continue
			}

			if info.Mode()&(os.ModeSymlink|os.ModeIrregular) != 0 {
				if rec, ok := w.prober.ProbeEntry(fullPath, isDir); ok {
					links = append(links, rec)
				}
				// Reparse points are never descended into (spec.md §4.6).
				continue
			}

			if isDir {
				subdirs = append(subdirs, fullPath)
				continue
			}

			if rec, ok := w.prober.ProbeEntry(fullPath, false); ok {
				links = append(links, rec)
			}
		}
	}

	return links, subdirs, nil
}

func (w *Walker) sendError(err error) {
	if w.errCh != nil {
		w.errCh <- err
	}
}

func (w *Walker) shouldExclude(path string) bool {
	return pathutil.Excluded(path, w.excludes)
}
