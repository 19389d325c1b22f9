// Package undo implements the undo engine (spec.md §4.10): find the
// latest undoable action by scanning successful rows newest-first
// while tracking how many prior undos have already compensated rows
// above it, then perform the compensating mutation.
package undo

import (
	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// Scanner supplies the successful-rows-newest-first iteration.
// Implemented by actionlog.Log.ScanSuccessfulDescending.
type Scanner interface {
	ScanSuccessfulDescending(visit func(linktypes.ActionRecord) (stop bool, err error)) error
}

// Mutator performs the compensating mutation, recording it itself as
// an Undo action carrying the same link path, kind, and
// target-old/new fields as the original (spec.md §4.10). Implemented
// by mutation.Engine's *ForUndo methods.
type Mutator interface {
	CreateForUndo(link, target string, kind linktypes.Kind, targetIsDirHint bool) error
	DeleteForUndo(path string) error
	RetargetForUndo(path, newTarget string) error
}

// Engine finds and performs the next undo.
type Engine struct {
	scanner Scanner
	mutator Mutator
}

// New creates an undo Engine.
func New(scanner Scanner, mutator Mutator) *Engine {
	return &Engine{scanner: scanner, mutator: mutator}
}

// FindTarget scans successful rows newest-first, maintaining a
// pending_undo counter: an Undo row increments it; a non-Undo row
// while pending_undo > 0 is treated as already compensated and
// decrements it; the first non-Undo row seen with pending_undo == 0
// is the target (spec.md §4.10).
func (e *Engine) FindTarget() (linktypes.ActionRecord, error) {
	var target linktypes.ActionRecord
	found := false
	pendingUndo := 0

	err := e.scanner.ScanSuccessfulDescending(func(rec linktypes.ActionRecord) (bool, error) {
		if rec.Kind == linktypes.ActionUndo {
			pendingUndo++
			return false, nil
		}
		if pendingUndo > 0 {
			pendingUndo--
			return false, nil
		}
		target = rec
		found = true
		return true, nil
	})
	if err != nil {
		return linktypes.ActionRecord{}, errors.Wrap(err, "scan action log")
	}
	if !found {
		return linktypes.ActionRecord{}, linktypes.ErrNothingToUndo
	}
	return target, nil
}

// Undo finds the latest undoable action and performs its compensating
// mutation. The mutator itself records the result as an Undo action
// carrying the same link path, kind, and target-old/new fields
// (spec.md §4.10); a failed Undo row does not increment pending_undo
// on the next scan, since the success filter already excludes it.
func (e *Engine) Undo() error {
	target, err := e.FindTarget()
	if err != nil {
		return err
	}
	return e.compensate(target)
}

// compensate performs the mutation that undoes target, per spec.md
// §4.10's compensation table.
func (e *Engine) compensate(target linktypes.ActionRecord) error {
	switch target.Kind {
	case linktypes.ActionCreate:
		return e.mutator.DeleteForUndo(target.LinkPath)

	case linktypes.ActionDelete:
		oldTarget := ""
		if target.TargetOld != nil {
			oldTarget = *target.TargetOld
		}
		return e.mutator.CreateForUndo(target.LinkPath, oldTarget, target.LinkKind, false)

	case linktypes.ActionRetarget:
		oldTarget := ""
		if target.TargetOld != nil {
			oldTarget = *target.TargetOld
		}
		return e.mutator.RetargetForUndo(target.LinkPath, oldTarget)

	default:
		return errors.Errorf("action kind %v has no compensation", target.Kind)
	}
}
