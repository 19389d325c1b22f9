package undo

import (
	"testing"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

type fakeScanner struct {
	rows []linktypes.ActionRecord // newest-first
}

func (f fakeScanner) ScanSuccessfulDescending(visit func(linktypes.ActionRecord) (bool, error)) error {
	for _, rec := range f.rows {
		stop, err := visit(rec)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}

type fakeMutator struct {
	createCalls   []string
	deleteCalls   []string
	retargetCalls []string
	err           error
}

func (m *fakeMutator) CreateForUndo(link, target string, kind linktypes.Kind, _ bool) error {
	m.createCalls = append(m.createCalls, link+"->"+target)
	return m.err
}

func (m *fakeMutator) DeleteForUndo(path string) error {
	m.deleteCalls = append(m.deleteCalls, path)
	return m.err
}

func (m *fakeMutator) RetargetForUndo(path, newTarget string) error {
	m.retargetCalls = append(m.retargetCalls, path+"->"+newTarget)
	return m.err
}

func TestFindTargetSimpleCase(t *testing.T) {
	scanner := fakeScanner{rows: []linktypes.ActionRecord{
		{Kind: linktypes.ActionCreate, LinkPath: `C:\a`},
	}}
	e := New(scanner, &fakeMutator{})

	target, err := e.FindTarget()
	if err != nil {
		t.Fatalf("FindTarget: %v", err)
	}
	if target.LinkPath != `C:\a` {
		t.Errorf("target = %+v", target)
	}
}

func TestFindTargetSkipsAlreadyCompensatedRows(t *testing.T) {
	// newest-first: Undo, Create(b) [compensated, skip], Create(a) [target]
	scanner := fakeScanner{rows: []linktypes.ActionRecord{
		{Kind: linktypes.ActionUndo, LinkPath: `C:\undo-marker`},
		{Kind: linktypes.ActionCreate, LinkPath: `C:\b`},
		{Kind: linktypes.ActionCreate, LinkPath: `C:\a`},
	}}
	e := New(scanner, &fakeMutator{})

	target, err := e.FindTarget()
	if err != nil {
		t.Fatalf("FindTarget: %v", err)
	}
	if target.LinkPath != `C:\a` {
		t.Errorf("target = %+v, want C:\\a (b should be skipped as already compensated)", target)
	}
}

func TestFindTargetNothingToUndo(t *testing.T) {
	scanner := fakeScanner{rows: nil}
	e := New(scanner, &fakeMutator{})

	if _, err := e.FindTarget(); err != linktypes.ErrNothingToUndo {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
}

func TestUndoCreateCompensatesWithDelete(t *testing.T) {
	scanner := fakeScanner{rows: []linktypes.ActionRecord{
		{Kind: linktypes.ActionCreate, LinkPath: `C:\a`},
	}}
	mutator := &fakeMutator{}
	e := New(scanner, mutator)

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(mutator.deleteCalls) != 1 || mutator.deleteCalls[0] != `C:\a` {
		t.Errorf("deleteCalls = %v", mutator.deleteCalls)
	}
}

func TestUndoDeleteCompensatesWithCreate(t *testing.T) {
	old := `C:\old-target`
	scanner := fakeScanner{rows: []linktypes.ActionRecord{
		{Kind: linktypes.ActionDelete, LinkPath: `C:\a`, LinkKind: linktypes.Junction, TargetOld: &old},
	}}
	mutator := &fakeMutator{}
	e := New(scanner, mutator)

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(mutator.createCalls) != 1 || mutator.createCalls[0] != `C:\a->C:\old-target` {
		t.Errorf("createCalls = %v", mutator.createCalls)
	}
}

func TestUndoRetargetCompensatesWithRetarget(t *testing.T) {
	old := `C:\old-target`
	scanner := fakeScanner{rows: []linktypes.ActionRecord{
		{Kind: linktypes.ActionRetarget, LinkPath: `C:\a`, TargetOld: &old},
	}}
	mutator := &fakeMutator{}
	e := New(scanner, mutator)

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(mutator.retargetCalls) != 1 || mutator.retargetCalls[0] != `C:\a->C:\old-target` {
		t.Errorf("retargetCalls = %v", mutator.retargetCalls)
	}
}
