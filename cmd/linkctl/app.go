package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivoronin/linkctl/internal/actionlog"
	"github.com/ivoronin/linkctl/internal/linkdetail"
	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/mutation"
	"github.com/ivoronin/linkctl/internal/scanner"
	"github.com/ivoronin/linkctl/internal/walker"
)

// drainErrors consumes errors from a channel and writes them to
// stderr. Clears the progress bar line before printing to avoid
// visual collision, matching ivoronin-dupedog's cmd/dupedog/dedupe.go.
func drainErrors(errs <-chan error) {
	for err := range errs {
		fmt.Fprintf(os.Stderr, "\r\033[Kerror: %v\n", err)
	}
}

// newWalkFactory closes over the worker/progress settings shared by
// every scan invocation, deferring actual Walker construction to the
// scanner's fallback path.
func newWalkFactory(workers int, showProgress bool, errCh chan error) scanner.WalkEngineFactory {
	return func(root string, excludes []string) scanner.WalkEngine {
		return walker.New(root, excludes, workers, showProgress, walker.NewProber(), errCh)
	}
}

// defaultActionLogPath resolves the per-user action log location,
// creating its parent directory if needed.
func defaultActionLogPath() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "linkctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "actions.db"), nil
}

// openActionLog opens the action log at path, or the default location
// when path is empty.
func openActionLog(path string) (*actionlog.Log, error) {
	if path == "" {
		var err error
		path, err = defaultActionLogPath()
		if err != nil {
			return nil, err
		}
	}
	return actionlog.Open(path)
}

// newMutationEngine wires the platform mutation backend to log.
func newMutationEngine(log *actionlog.Log) *mutation.Engine {
	return mutation.New(mutation.NewBackend(), log)
}

// enricherAdapter satisfies exporter.Enricher, binding linkdetail.Enrich
// to one OwnerResolver.
type enricherAdapter struct {
	owners linkdetail.OwnerResolver
}

func newEnricher() enricherAdapter {
	return enricherAdapter{owners: linkdetail.PowerShellOwnerResolver{}}
}

func (e enricherAdapter) Enrich(rec linktypes.LinkRecord) linktypes.LinkDetail {
	return linkdetail.Enrich(rec, e.owners)
}
