// Package mutation implements the Create/Delete/Retarget engine
// (spec.md §4.8): each public operation records an action attempt
// before surfacing its outcome, regardless of success.
//
// Creation checks its preconditions first (the link path must not
// exist yet, the parent directory is created) and then creates the
// link; the existence check and the creation are separate steps. The
// privileged-fallback-on-access-denied pattern for deletion follows
// ivoronin-dupedog's internal/deduper/links.go and
// internal/deduper/deduper.go.
package mutation

import (
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// Backend performs the actual filesystem operations for one platform.
// The Windows implementation (backend_windows.go) is grounded on
// golang.org/x/sys/windows; the portable fallback (backend_other.go)
// exists only so this package and its tests compile on every host.
type Backend interface {
	Exists(path string) bool
	TargetIsDirectory(path string) bool
	MkdirAll(path string) error
	CreateSymlink(link, target string, isDir bool) error
	CreateJunction(link, target string) error
	CreateHardlink(link, target string) error
	Delete(path string) error
	CurrentKindAndTarget(path string) (linktypes.Kind, string, error)
}

// Logger records an action attempt and returns its assigned id.
// Implemented by actionlog.Log.
type Logger interface {
	Append(rec linktypes.ActionRecord) (uint64, error)
}

// Engine is the mutation engine (spec.md §4.8).
type Engine struct {
	backend Backend
	log     Logger
}

// New creates an Engine over backend, recording every attempt to log.
func New(backend Backend, log Logger) *Engine {
	return &Engine{backend: backend, log: log}
}

// Create makes a new link at link pointing at target. targetIsDirHint
// only affects the Symlink case (spec.md §4.8).
func (e *Engine) Create(link, target string, kind linktypes.Kind, targetIsDirHint bool) error {
	return e.doCreate(linktypes.ActionCreate, link, target, kind, targetIsDirHint)
}

// CreateForUndo behaves like Create but records the action as an Undo
// entry rather than a Create entry, since the undo engine's
// compensating mutations are themselves recorded as Undo actions
// (spec.md §4.10).
func (e *Engine) CreateForUndo(link, target string, kind linktypes.Kind, targetIsDirHint bool) error {
	return e.doCreate(linktypes.ActionUndo, link, target, kind, targetIsDirHint)
}

func (e *Engine) doCreate(recordAs linktypes.ActionKind, link, target string, kind linktypes.Kind, targetIsDirHint bool) error {
	err := e.create(link, target, kind, targetIsDirHint)
	e.record(recordAs, link, kind, nil, &target, err)
	return translatePrivilegeError(err)
}

func (e *Engine) create(link, target string, kind linktypes.Kind, targetIsDirHint bool) error {
	if e.backend.Exists(link) {
		return errors.Wrapf(linktypes.ErrInvalidArgument, "link already exists: %s", link)
	}

	dir := parentDir(link)
	if err := e.backend.MkdirAll(dir); err != nil {
		return errors.Wrap(err, "create parent directory")
	}

	switch kind {
	case linktypes.Junction:
		if !isAbsolutePath(target) {
			return errors.Wrapf(linktypes.ErrInvalidArgument, "junction target must be absolute: %s", target)
		}
		return e.backend.CreateJunction(link, target)

	case linktypes.Hardlink:
		if !e.backend.Exists(target) {
			return errors.Wrapf(linktypes.ErrNotFound, "hardlink target: %s", target)
		}
		if !sameVolumePrefix(link, target) {
			return errors.Wrapf(linktypes.ErrInvalidArgument, "hardlink target must be on the same volume as %s", link)
		}
		return e.backend.CreateHardlink(link, target)

	default: // Symlink
		isDir := targetIsDirHint || e.backend.TargetIsDirectory(target)
		return e.backend.CreateSymlink(link, target, isDir)
	}
}

// Delete removes the link or file at path (spec.md §4.8). The access-
// denied-then-privileged-fallback pattern is delegated to the backend,
// which is the layer that knows the platform's fallback utility.
func (e *Engine) Delete(path string) error {
	return e.doDelete(linktypes.ActionDelete, path)
}

// DeleteForUndo behaves like Delete but records the action as an
// Undo entry (spec.md §4.10).
func (e *Engine) DeleteForUndo(path string) error {
	return e.doDelete(linktypes.ActionUndo, path)
}

func (e *Engine) doDelete(recordAs linktypes.ActionKind, path string) error {
	kind, oldTarget, kindErr := e.backend.CurrentKindAndTarget(path)
	var targetOld *string
	if kindErr == nil && oldTarget != "" {
		targetOld = &oldTarget
	}
	err := e.backend.Delete(path)
	e.record(recordAs, path, kind, targetOld, nil, err)
	return translatePrivilegeError(err)
}

// Retarget deletes the link at path and recreates it at the same kind
// toward newTarget; on creation failure it rolls back by recreating
// the original link toward the previous target (spec.md §4.8).
func (e *Engine) Retarget(path, newTarget string) error {
	return e.doRetarget(linktypes.ActionRetarget, path, newTarget)
}

// RetargetForUndo behaves like Retarget but records the action as an
// Undo entry (spec.md §4.10).
func (e *Engine) RetargetForUndo(path, newTarget string) error {
	return e.doRetarget(linktypes.ActionUndo, path, newTarget)
}

func (e *Engine) doRetarget(recordAs linktypes.ActionKind, path, newTarget string) error {
	kind, oldTarget, err := e.backend.CurrentKindAndTarget(path)
	if err != nil {
		e.record(recordAs, path, kind, nil, &newTarget, err)
		return err
	}

	if err := e.backend.Delete(path); err != nil {
		e.record(recordAs, path, kind, &oldTarget, &newTarget, err)
		return translatePrivilegeError(err)
	}

	createErr := e.create(path, newTarget, kind, false)
	if createErr == nil {
		e.record(recordAs, path, kind, &oldTarget, &newTarget, nil)
		return nil
	}

	rollbackErr := e.create(path, oldTarget, kind, false)
	if rollbackErr != nil {
		combined := errors.Wrapf(createErr, "retarget failed and rollback also failed: %v", rollbackErr)
		e.record(recordAs, path, kind, &oldTarget, &newTarget, combined)
		return combined
	}

	e.record(recordAs, path, kind, &oldTarget, &newTarget, createErr)
	return translatePrivilegeError(createErr)
}

// record writes an action attempt unconditionally; err's message is
// preserved verbatim (spec.md §4.8).
func (e *Engine) record(kind linktypes.ActionKind, path string, linkKind linktypes.Kind, oldTarget, newTarget *string, err error) {
	if e.log == nil {
		return
	}
	rec := linktypes.ActionRecord{
		Kind:      kind,
		LinkPath:  path,
		LinkKind:  linkKind,
		TargetOld: oldTarget,
		TargetNew: newTarget,
		Timestamp: time.Now().UTC(),
		Success:   err == nil,
	}
	if err != nil {
		msg := err.Error()
		rec.ErrorMsg = &msg
	}
	_, _ = e.log.Append(rec)
}

// privilegeErrorCode is the raw Windows error code returned when
// symbolic-link creation privilege is missing (spec.md §4.8).
const privilegeErrorCode = 1314

// translatePrivilegeError maps the raw OS privilege-denied code to the
// sentinel the CLI renders as a user-visible message (spec.md §4.8).
func translatePrivilegeError(err error) error {
	if err == nil {
		return nil
	}
	var errno syscall.Errno
	if (errors.As(err, &errno) && uint32(errno) == privilegeErrorCode) ||
		strings.Contains(err.Error(), strconv.Itoa(privilegeErrorCode)) {
		return errors.Wrap(linktypes.ErrPrivilegeRequired, err.Error())
	}
	return err
}

func parentDir(path string) string {
	i := strings.LastIndexAny(path, `\/`)
	if i <= 0 {
		return path
	}
	return path[:i]
}

func isAbsolutePath(path string) bool {
	return len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}

// sameVolumePrefix implements the spec's same-volume hard-link check:
// the first two characters of link and target must match
// case-insensitively (spec.md §4.8).
func sameVolumePrefix(a, b string) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	return strings.EqualFold(a[:2], b[:2])
}
