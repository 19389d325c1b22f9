package linkdetail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

func TestResolveTargetRelative(t *testing.T) {
	base := t.TempDir()
	got := ResolveTarget(filepath.Join(base, "link.txt"), filepath.Join("sub", "target.txt"))
	want := filepath.Join(base, "sub", "target.txt")
	if got != want {
		t.Errorf("ResolveTarget = %q, want %q", got, want)
	}
}

func TestResolveTargetAbsolute(t *testing.T) {
	got := ResolveTarget(`C:\data\link.txt`, `D:\other\target.txt`)
	if got != `D:\other\target.txt` {
		t.Errorf("ResolveTarget = %q", got)
	}
}

func TestResolveTargetEmpty(t *testing.T) {
	if got := ResolveTarget(`C:\data\link.txt`, ""); got != "" {
		t.Errorf("ResolveTarget = %q, want empty", got)
	}
}

type fakeOwnerResolver struct{ owner string }

func (f fakeOwnerResolver) Owner(string) string { return f.owner }

func TestEnrichExistingTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	linkPath := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(linkPath, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := linktypes.LinkRecord{Path: linkPath, Target: target, Kind: linktypes.Symlink}
	detail := Enrich(rec, fakeOwnerResolver{owner: "BUILTIN\\Administrators"})

	if detail.Status.Kind != linktypes.StatusOk {
		t.Errorf("Status = %+v, want Ok", detail.Status)
	}
	if detail.Owner != "BUILTIN\\Administrators" {
		t.Errorf("Owner = %q", detail.Owner)
	}
}

func TestEnrichEmptyTarget(t *testing.T) {
	rec := linktypes.LinkRecord{Path: `C:\link.txt`, Target: ""}
	detail := Enrich(rec, nil)

	if detail.Status.Kind != linktypes.StatusBroken || detail.Status.Reason != "target path is empty" {
		t.Errorf("Status = %+v, want Broken(%q)", detail.Status, "target path is empty")
	}
}

func TestEnrichMissingTarget(t *testing.T) {
	dir := t.TempDir()
	linkPath := filepath.Join(dir, "link.txt")
	if err := os.WriteFile(linkPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	rec := linktypes.LinkRecord{Path: linkPath, Target: filepath.Join(dir, "missing.txt"), Kind: linktypes.Symlink}
	detail := Enrich(rec, nil)

	if detail.Status.Kind != linktypes.StatusBroken {
		t.Errorf("Status = %+v, want Broken", detail.Status)
	}
}
