package linktypes

import "errors"

// Sentinel errors forming the taxonomy in spec.md §7. Call sites wrap
// these with github.com/pkg/errors for stack context; callers compare
// with errors.Is against these values.
var (
	// ErrPrivilegeRequired is raised by link creation when the process
	// lacks the symbolic-link privilege (raw OS code 1314 on Windows).
	ErrPrivilegeRequired = errors.New("symbolic-link privilege required; enable developer mode or elevate")

	// ErrNotFound indicates a target is missing.
	ErrNotFound = errors.New("target does not exist")

	// ErrAccessDenied indicates a permission failure.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidArgument covers drive parsing, cross-volume hard links,
	// relative junction targets, non-file hard-link targets, and
	// existing link paths on create.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTimeout indicates a validation probe exceeded its deadline.
	ErrTimeout = errors.New("timeout resolving target")

	// ErrNothingToUndo is returned by the undo engine when the action
	// log has no undoable row.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrJournalUnavailable signals the scanner to fall back to the
	// tree walker; it is never surfaced to the caller of Scan.
	ErrJournalUnavailable = errors.New("change journal unavailable or insufficient privilege")
)
