package actionlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "actions.db")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestAppendAssignsIncreasingIDs(t *testing.T) {
	l := openTestLog(t)

	id1, err := l.Append(linktypes.ActionRecord{Kind: linktypes.ActionCreate, LinkPath: `C:\a`, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	id2, err := l.Append(linktypes.ActionRecord{Kind: linktypes.ActionDelete, LinkPath: `C:\b`, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("id2 (%d) should be greater than id1 (%d)", id2, id1)
	}
}

func TestListOrdersDescending(t *testing.T) {
	l := openTestLog(t)

	for i := 0; i < 3; i++ {
		if _, err := l.Append(linktypes.ActionRecord{Kind: linktypes.ActionCreate, LinkPath: `C:\x`, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	results, err := l.List(0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID <= results[1].ID {
		t.Errorf("expected descending order, got %d then %d", results[0].ID, results[1].ID)
	}
}

func TestErrorMessagePreservedVerbatim(t *testing.T) {
	l := openTestLog(t)
	msg := "exactly this message, no mangling"

	if _, err := l.Append(linktypes.ActionRecord{
		Kind: linktypes.ActionCreate, LinkPath: `C:\a`, Timestamp: time.Now(),
		Success: false, ErrorMsg: &msg,
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	results, err := l.List(0, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if results[0].ErrorMsg == nil || *results[0].ErrorMsg != msg {
		t.Errorf("error message not preserved: %+v", results[0].ErrorMsg)
	}
}

func TestScanSuccessfulDescendingSkipsFailures(t *testing.T) {
	l := openTestLog(t)

	msg := "boom"
	_, _ = l.Append(linktypes.ActionRecord{Kind: linktypes.ActionCreate, LinkPath: `C:\a`, Timestamp: time.Now(), Success: true})
	_, _ = l.Append(linktypes.ActionRecord{Kind: linktypes.ActionDelete, LinkPath: `C:\b`, Timestamp: time.Now(), Success: false, ErrorMsg: &msg})
	_, _ = l.Append(linktypes.ActionRecord{Kind: linktypes.ActionRetarget, LinkPath: `C:\c`, Timestamp: time.Now(), Success: true})

	var visited []string
	err := l.ScanSuccessfulDescending(func(rec linktypes.ActionRecord) (bool, error) {
		visited = append(visited, rec.LinkPath)
		return false, nil
	})
	if err != nil {
		t.Fatalf("ScanSuccessfulDescending: %v", err)
	}
	if len(visited) != 2 || visited[0] != `C:\c` || visited[1] != `C:\a` {
		t.Errorf("visited = %v, want [C:\\c C:\\a]", visited)
	}
}
