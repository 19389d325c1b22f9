// Package exporter writes a set of LinkDetails to CSV or JSON with a
// bounded 8-way enrichment fan-out (spec.md §5) and an atomic
// temp-file-then-rename write, matching ivoronin-dupedog's
// internal/deduper/links.go atomic-creation idiom.
//
// Grounded on original_source/src-tauri/src/commands/export.rs: the
// CSV header/column set and the JSON streaming-array shape are
// preserved; the concurrency primitive is the pack's semaphore rather
// than a Tokio JoinSet.
package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// maxConcurrency bounds simultaneous detail-enrichment lookups
// (spec.md §5).
const maxConcurrency = 8

// Format selects the export encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

var csvHeader = []string{
	"link_path", "target_stored", "target_real", "link_type",
	"status", "object_type", "created_at", "owner",
}

// Enricher resolves link details for one record. Implemented by
// linkdetail.Enrich bound to a concrete OwnerResolver.
type Enricher interface {
	Enrich(rec linktypes.LinkRecord) linktypes.LinkDetail
}

// Export writes records to path in format, enriching each one with up
// to maxConcurrency concurrent lookups, then atomically publishing the
// result via a temp-file-then-rename swap so a reader never observes
// a partially written file.
func Export(ctx context.Context, records []linktypes.LinkRecord, enricher Enricher, format Format, path string) error {
	details := enrichAll(ctx, records, enricher)

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "create temp export file %q", tmp)
	}

	var writeErr error
	switch format {
	case FormatJSON:
		writeErr = writeJSON(f, details)
	default:
		writeErr = writeCSV(f, details)
	}

	if closeErr := f.Close(); closeErr != nil && writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(writeErr, "write export")
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "publish export file %q", path)
	}
	return nil
}

// enrichAll resolves link details for every record, at most
// maxConcurrency at a time, preserving input order.
func enrichAll(ctx context.Context, records []linktypes.LinkRecord, enricher Enricher) []linktypes.LinkDetail {
	sem := linktypes.NewSemaphore(maxConcurrency)
	details := make([]linktypes.LinkDetail, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec linktypes.LinkRecord) {
			defer wg.Done()
			sem.Acquire()
			defer sem.Release()

			select {
			case <-ctx.Done():
				details[i] = linktypes.LinkDetail{LinkRecord: rec}
			default:
				details[i] = enricher.Enrich(rec)
			}
		}(i, rec)
	}
	wg.Wait()

	return details
}

func writeCSV(f *os.File, details []linktypes.LinkDetail) error {
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write CSV header")
	}
	for _, d := range details {
		row := []string{
			d.Path, d.Target, d.ResolvedTarget, d.Kind.String(),
			d.Status.String(), objectTypeString(d.Object),
			d.Created.Format("2006-01-02T15:04:05Z07:00"), d.Owner,
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "write CSV row")
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(f *os.File, details []linktypes.LinkDetail) error {
	if _, err := f.WriteString("["); err != nil {
		return err
	}
	for i, d := range details {
		if i > 0 {
			if _, err := f.WriteString(","); err != nil {
				return err
			}
		}
		data, err := json.Marshal(jsonDetail{
			Path:           d.Path,
			TargetStored:   d.Target,
			TargetReal:     d.ResolvedTarget,
			LinkType:       d.Kind.String(),
			Status:         d.Status.String(),
			ObjectType:     objectTypeString(d.Object),
			CreatedAt:      d.Created.Format("2006-01-02T15:04:05Z07:00"),
			Owner:          d.Owner,
		})
		if err != nil {
			return errors.Wrap(err, "marshal export row")
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
	}
	_, err := f.WriteString("]")
	return err
}

type jsonDetail struct {
	Path         string `json:"link_path"`
	TargetStored string `json:"target_stored"`
	TargetReal   string `json:"target_real"`
	LinkType     string `json:"link_type"`
	Status       string `json:"status"`
	ObjectType   string `json:"object_type"`
	CreatedAt    string `json:"created_at"`
	Owner        string `json:"owner"`
}

func objectTypeString(o linktypes.ObjectKind) string {
	if o == linktypes.ObjectDirectory {
		return "Directory"
	}
	return "File"
}
