// Package validator re-validates a set of LinkRecords' targets with a
// bounded fan-out, per spec.md §5: 16 concurrent probes, each
// metadata() call wrapped in a 500ms timeout, preserving the input
// multiset and sorting the final output by path.
//
// Grounded on original_source/src-tauri/src/commands/validate.rs's
// worker-pool-of-16 shape, translated into the pack's own semaphore +
// WaitGroup + result-channel idiom (ivoronin-dupedog's
// internal/scanner.Scanner) rather than a Tokio JoinSet.
package validator

import (
	"context"
	"sync"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// maxConcurrency bounds simultaneous target probes (spec.md §5).
const maxConcurrency = 16

// probeTimeout bounds a single target probe (spec.md §5).
const probeTimeout = 500 * time.Millisecond

// TargetProber resolves one record's status against its stored
// target. Implemented over real filesystem metadata calls and faked
// in tests.
type TargetProber interface {
	Probe(ctx context.Context, rec linktypes.LinkRecord) linktypes.Status
}

// Validate re-checks every record's target, at most maxConcurrency at
// a time, and returns the records (each with a freshly computed
// Status) sorted by path. Every input produces exactly one output
// record (spec.md §5).
func Validate(ctx context.Context, records []linktypes.LinkRecord, prober TargetProber) []linktypes.LinkRecord {
	sem := linktypes.NewSemaphore(maxConcurrency)
	results := make([]linktypes.LinkRecord, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec linktypes.LinkRecord) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			results[i] = rec
			results[i].Status = probeWithTimeout(ctx, prober, rec)
		}(i, rec)
	}
	wg.Wait()

	sorted := linktypes.NewSorted(results, func(r linktypes.LinkRecord) string { return r.Path })
	return sorted.Items()
}

// probeWithTimeout wraps a single probe in a 500ms deadline; on
// cancellation or expiry it converts to a Broken("timeout resolving
// target") status for that record only (spec.md §5).
func probeWithTimeout(ctx context.Context, prober TargetProber, rec linktypes.LinkRecord) linktypes.Status {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	resultCh := make(chan linktypes.Status, 1)
	go func() {
		resultCh <- prober.Probe(probeCtx, rec)
	}()

	select {
	case status := <-resultCh:
		return status
	case <-probeCtx.Done():
		return linktypes.Broken("timeout resolving target")
	}
}
