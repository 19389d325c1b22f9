package exporter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

type fakeEnricher struct{}

func (fakeEnricher) Enrich(rec linktypes.LinkRecord) linktypes.LinkDetail {
	return linktypes.LinkDetail{LinkRecord: rec, ResolvedTarget: rec.Target}
}

func TestExportCSVWritesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "links.csv")

	records := []linktypes.LinkRecord{
		{Path: `C:\a`, Target: `C:\t1`, Kind: linktypes.Symlink, Status: linktypes.OkStatus},
		{Path: `C:\b`, Target: `C:\t2`, Kind: linktypes.Junction, Status: linktypes.OkStatus},
	}

	if err := Export(context.Background(), records, fakeEnricher{}, FormatCSV, out); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows (incl. header), want 3", len(rows))
	}
	if rows[0][0] != "link_path" {
		t.Errorf("header[0] = %q", rows[0][0])
	}
}

func TestExportJSONProducesValidArray(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "links.json")

	records := []linktypes.LinkRecord{
		{Path: `C:\a`, Target: `C:\t1`, Kind: linktypes.Symlink, Status: linktypes.OkStatus},
	}

	if err := Export(context.Background(), records, fakeEnricher{}, FormatJSON, out); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var rows []jsonDetail
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if len(rows) != 1 || rows[0].Path != `C:\a` {
		t.Errorf("rows = %+v", rows)
	}
}

func TestExportNoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sub", "links.csv") // parent dir missing

	err := Export(context.Background(), nil, fakeEnricher{}, FormatCSV, out)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("export file should not exist after a failed export")
	}
	if _, statErr := os.Stat(out + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("temp export file should be cleaned up after failure")
	}
}
