// Package linktypes provides the shared data model used across the
// linkctl codebase: link kinds, scan/action records, and the sentinel
// errors that the mutation and undo engines translate into user-visible
// messages.
package linktypes

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Kind identifies the on-disk nature of a link.
type Kind int

const (
	// Symlink is a reparse point whose target can be a file or
	// directory on any volume, absolute or relative.
	Symlink Kind = iota
	// Junction is a reparse point whose target must be an absolute
	// directory path; may cross volumes.
	Junction
	// Hardlink is an additional directory entry for an existing file
	// on the same volume.
	Hardlink
)

// String round-trips through the fixed log encoding from spec.md §6.
func (k Kind) String() string {
	switch k {
	case Junction:
		return "Junction"
	case Hardlink:
		return "Hardlink"
	default:
		return "Symlink"
	}
}

// ParseKind decodes the fixed label set; an unknown label reads back as
// Symlink, per spec.md §6.
func ParseKind(s string) Kind {
	switch s {
	case "Junction":
		return Junction
	case "Hardlink":
		return Hardlink
	default:
		return Symlink
	}
}

// StatusKind classifies the validity of an emitted link record.
type StatusKind int

const (
	StatusOk StatusKind = iota
	StatusAccessDenied
	StatusBroken
)

// Status is the validation outcome attached to a LinkRecord.
type Status struct {
	Kind   StatusKind
	Reason string // only meaningful when Kind == StatusBroken
}

// OkStatus is the zero-value, common-case status.
var OkStatus = Status{Kind: StatusOk}

// AccessDeniedStatus is returned when a path could not be read.
var AccessDeniedStatus = Status{Kind: StatusAccessDenied}

// Broken builds a Status carrying a human reason, e.g. "target does
// not exist" or "timeout resolving target".
func Broken(reason string) Status {
	return Status{Kind: StatusBroken, Reason: reason}
}

func (s Status) String() string {
	switch s.Kind {
	case StatusAccessDenied:
		return "AccessDenied"
	case StatusBroken:
		return fmt.Sprintf("Broken(%s)", s.Reason)
	default:
		return "Ok"
	}
}

// LinkRecord is produced by the scanner (spec.md §3).
type LinkRecord struct {
	Path   string // absolute
	Target string // as read from the link; empty for hard links until resolved
	Kind   Kind
	Status Status
}

// ObjectKind distinguishes the filesystem object a link resolves to.
type ObjectKind int

const (
	ObjectFile ObjectKind = iota
	ObjectDirectory
)

// Attr is a bitmask of Windows file attributes relevant to link detail
// enrichment.
type Attr uint32

const (
	AttrReadOnly Attr = 1 << iota
	AttrHidden
	AttrSystem
	AttrArchive
	AttrReparsePoint
	AttrNormal Attr = 0
)

// LinkDetail enriches a LinkRecord with metadata that is a pure function
// of the path (spec.md §3) and is not part of the scanner's invariant
// set.
type LinkDetail struct {
	LinkRecord
	ResolvedTarget string
	Created        time.Time
	Modified       time.Time
	Owner          string
	Attributes     Attr
	Object         ObjectKind
}

// FileRefNode is a journal-path-only node of the file-reference forest
// (spec.md §3). The zero value for Parent/Attributes is never a
// meaningful node; nodes are always inserted explicitly.
type FileRefNode struct {
	Parent     uint64
	Name       string
	Attributes uint32
}

// ActionKind enumerates the mutation/undo action log entry types.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionDelete
	ActionRetarget
	ActionUndo
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "Create"
	case ActionDelete:
		return "Delete"
	case ActionRetarget:
		return "Retarget"
	case ActionUndo:
		return "Undo"
	default:
		return "Unknown"
	}
}

// ActionRecord is an append-only log entry (spec.md §3/§6).
type ActionRecord struct {
	ID         uint64
	Kind       ActionKind
	LinkPath   string
	LinkKind   Kind
	TargetOld  *string
	TargetNew  *string
	Timestamp  time.Time
	Success    bool
	ErrorMsg   *string
}

// ScanMode records which engine produced a ScanResult.
type ScanMode int

const (
	ModeUsnJournal ScanMode = iota
	ModeWalkdirFallback
)

func (m ScanMode) String() string {
	if m == ModeUsnJournal {
		return "UsnJournal"
	}
	return "WalkdirFallback"
}

// ScanResult is the terminating value of a scan (spec.md §6).
type ScanResult struct {
	Entries []LinkRecord
	Mode    ScanMode
}

// ScanProgress is a periodic side-channel snapshot emitted during a
// scan.
type ScanProgress struct {
	Scanned     int64
	Found       int64
	CurrentPath string
}

// ScanBatch is a fixed-size (or final, possibly smaller) slice of
// freshly discovered link records.
type ScanBatch struct {
	Entries []LinkRecord
}

// Sorted is an ordered collection that maintains sort order by a key
// function. Carried over from the teacher's internal/types/fileinfo.go
// unchanged in shape.
type Sorted[T any, K cmp.Ordered] struct {
	items   []T
	keyFunc func(T) K
}

// NewSorted creates a sorted collection from items using keyFunc for
// ordering. Items are copied and sorted at construction time.
func NewSorted[T any, K cmp.Ordered](items []T, keyFunc func(T) K) Sorted[T, K] {
	sorted := make([]T, len(items))
	copy(sorted, items)
	slices.SortFunc(sorted, func(a, b T) int {
		return cmp.Compare(keyFunc(a), keyFunc(b))
	})
	return Sorted[T, K]{items: sorted, keyFunc: keyFunc}
}

// Items returns the sorted items.
func (s Sorted[T, K]) Items() []T { return s.items }

// Len returns the number of items.
func (s Sorted[T, K]) Len() int { return len(s.items) }

// Semaphore implements a counting semaphore using a buffered channel.
type Semaphore chan struct{}

// NewSemaphore creates a semaphore that allows up to n concurrent
// acquisitions.
func NewSemaphore(n int) Semaphore { return make(chan struct{}, n) }

// Acquire blocks until a slot is available, then claims it.
func (s Semaphore) Acquire() { s <- struct{}{} }

// Release frees a slot, unblocking one waiting Acquire call.
func (s Semaphore) Release() { <-s }
