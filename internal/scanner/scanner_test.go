package scanner

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

type fakeJournal struct {
	entries []linktypes.LinkRecord
	err     error
}

func (f fakeJournal) Scan(string) ([]linktypes.LinkRecord, error) {
	return f.entries, f.err
}

type fakeWalk struct {
	entries []linktypes.LinkRecord
}

func (f fakeWalk) Run(context.Context) []linktypes.LinkRecord {
	return f.entries
}

func TestRunUsesJournalWhenAvailable(t *testing.T) {
	want := []linktypes.LinkRecord{{Path: `C:\a`, Kind: linktypes.Symlink}}
	s := New(fakeJournal{entries: want}, nil, nil, nil, nil)

	result, err := s.Run(context.Background(), "c")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Mode != linktypes.ModeUsnJournal {
		t.Errorf("mode = %v, want UsnJournal", result.Mode)
	}
	if len(result.Entries) != 1 || result.Entries[0].Path != `C:\a` {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestRunFallsBackOnJournalError(t *testing.T) {
	want := []linktypes.LinkRecord{{Path: `C:\b`, Kind: linktypes.Junction}}
	factory := func(root string, excludes []string) WalkEngine {
		return fakeWalk{entries: want}
	}
	s := New(fakeJournal{err: errors.New("journal unavailable")}, factory, nil, nil, nil)

	result, err := s.Run(context.Background(), "c")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Mode != linktypes.ModeWalkdirFallback {
		t.Errorf("mode = %v, want WalkdirFallback", result.Mode)
	}
	if len(result.Entries) != 1 || result.Entries[0].Path != `C:\b` {
		t.Errorf("entries = %+v", result.Entries)
	}
}

func TestRunRejectsInvalidDrive(t *testing.T) {
	s := New(fakeJournal{}, nil, nil, nil, nil)
	if _, err := s.Run(context.Background(), `C:\Windows`); err == nil {
		t.Fatal("expected normalization error for a non-root drive specifier")
	}
}

func TestRunEmitsDisjointBatchesCoveringResult(t *testing.T) {
	var want []linktypes.LinkRecord
	for i := 0; i < 600; i++ {
		want = append(want, linktypes.LinkRecord{Path: string(rune('a' + i%26))})
	}
	batchCh := make(chan linktypes.ScanBatch, 10)
	s := New(fakeJournal{entries: want}, nil, nil, nil, batchCh)

	result, err := s.Run(context.Background(), "c")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(batchCh)

	var got []linktypes.LinkRecord
	for batch := range batchCh {
		got = append(got, batch.Entries...)
	}
	if len(got) != len(result.Entries) {
		t.Fatalf("batch total %d, want %d", len(got), len(result.Entries))
	}
	for i := range got {
		if got[i] != result.Entries[i] {
			t.Errorf("batched entry %d = %+v, want %+v", i, got[i], result.Entries[i])
			break
		}
	}
}
