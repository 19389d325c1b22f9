package validator

import (
	"context"
	"testing"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

type fakeProber struct {
	status map[string]linktypes.Status
	delay  time.Duration
}

func (f fakeProber) Probe(ctx context.Context, rec linktypes.LinkRecord) linktypes.Status {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return linktypes.Broken("timeout resolving target")
		}
	}
	if s, ok := f.status[rec.Path]; ok {
		return s
	}
	return linktypes.OkStatus
}

func TestValidatePreservesMultisetAndSorts(t *testing.T) {
	records := []linktypes.LinkRecord{
		{Path: `C:\c`}, {Path: `C:\a`}, {Path: `C:\b`},
	}
	out := Validate(context.Background(), records, fakeProber{})

	if len(out) != 3 {
		t.Fatalf("got %d results, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].Path > out[i].Path {
			t.Errorf("results not sorted: %v", out)
		}
	}
}

func TestValidateAppliesStatus(t *testing.T) {
	records := []linktypes.LinkRecord{{Path: `C:\broken`}}
	statuses := map[string]linktypes.Status{`C:\broken`: linktypes.Broken("target does not exist")}
	out := Validate(context.Background(), records, fakeProber{status: statuses})

	if out[0].Status.Kind != linktypes.StatusBroken {
		t.Errorf("Status = %+v, want Broken", out[0].Status)
	}
}

func TestValidateTimesOutSlowProbe(t *testing.T) {
	records := []linktypes.LinkRecord{{Path: `C:\slow`}}
	out := Validate(context.Background(), records, fakeProber{delay: 2 * time.Second})

	if out[0].Status.Kind != linktypes.StatusBroken || out[0].Status.Reason != "timeout resolving target" {
		t.Errorf("Status = %+v, want timeout Broken", out[0].Status)
	}
}

func TestValidateEmptyInput(t *testing.T) {
	out := Validate(context.Background(), nil, fakeProber{})
	if len(out) != 0 {
		t.Errorf("got %d results, want 0", len(out))
	}
}

func TestMetadataProberEmptyTarget(t *testing.T) {
	rec := linktypes.LinkRecord{Path: `C:\link.txt`, Target: ""}
	status := MetadataProber{}.Probe(context.Background(), rec)

	if status.Kind != linktypes.StatusBroken || status.Reason != "target path is empty" {
		t.Errorf("Probe = %+v, want Broken(%q)", status, "target path is empty")
	}
}
