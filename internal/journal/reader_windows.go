//go:build windows

package journal

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/volio"
)

// usnJournalData mirrors USN_JOURNAL_DATA_V0 as returned by
// FSCTL_QUERY_USN_JOURNAL.
type usnJournalData struct {
	UsnJournalID    uint64
	FirstUsn        int64
	NextUsn         int64
	LowestValidUsn  int64
	MaxUsn          int64
	MaximumSize     uint64
	AllocationDelta uint64
}

// mftEnumDataV0 mirrors MFT_ENUM_DATA_V0, the input buffer for
// FSCTL_ENUM_USN_DATA.
type mftEnumDataV0 struct {
	StartFileReferenceNumber uint64
	LowUsn                   int64
	HighUsn                  int64
}

const pageBufferSize = 64 * 1024

// Reader drives a single USN-journal scan of an open volume handle,
// producing a populated Forest (spec.md §4.5).
type Reader struct {
	vol *volio.Handle
}

// NewReader wraps an already-open volume handle.
func NewReader(vol *volio.Handle) *Reader {
	return &Reader{vol: vol}
}

// QueryJournal issues FSCTL_QUERY_USN_JOURNAL to confirm a change
// journal exists on the volume (spec.md §4.5 step 1). It returns
// linktypes.ErrJournalUnavailable when the journal is absent or the
// caller lacks the privilege to query it.
func (r *Reader) QueryJournal() (usnJournalData, error) {
	var data usnJournalData
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		r.vol.Raw(),
		windows.FSCTL_QUERY_USN_JOURNAL,
		nil, 0,
		(*byte)(unsafe.Pointer(&data)), uint32(unsafe.Sizeof(data)),
		&bytesReturned, nil,
	)
	if err != nil {
		return usnJournalData{}, errors.Wrap(linktypes.ErrJournalUnavailable, err.Error())
	}
	return data, nil
}

// FetchPage implements PageFetcher via FSCTL_ENUM_USN_DATA starting at
// startingRef, enumerating every on-disk record regardless of USN
// range (spec.md §4.5 step 2: LowUsn 0, HighUsn max).
func (r *Reader) FetchPage(startingRef uint64) ([]byte, error) {
	in := mftEnumDataV0{
		StartFileReferenceNumber: startingRef,
		LowUsn:                   0,
		HighUsn:                  1<<63 - 1,
	}

	buf := make([]byte, pageBufferSize)
	var bytesReturned uint32

	err := windows.DeviceIoControl(
		r.vol.Raw(),
		windows.FSCTL_ENUM_USN_DATA,
		(*byte)(unsafe.Pointer(&in)), uint32(unsafe.Sizeof(in)),
		&buf[0], uint32(len(buf)),
		&bytesReturned, nil,
	)
	if err != nil {
		if errors.Is(err, windows.ERROR_HANDLE_EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "FSCTL_ENUM_USN_DATA")
	}

	return buf[:bytesReturned], nil
}

// Scan runs the full USN-journal fast path for the volume: confirms
// the journal exists, drains all pages into a forest, reconstructs
// every node's path, and classifies reparse points and hard links
// into LinkRecords (spec.md §4.5).
func (r *Reader) Scan(driveRoot string, tags TagReader, prober HardlinkProber) ([]linktypes.LinkRecord, error) {
	if _, err := r.QueryJournal(); err != nil {
		return nil, err
	}

	forest := NewForest()
	if err := Drain(forest, r.FetchPage, 0); err != nil {
		return nil, errors.Wrap(err, "drain change journal")
	}

	reconstructor := NewReconstructor(forest, driveRoot)
	classifier := NewClassifier(tags, prober)

	var results []linktypes.LinkRecord
	for _, ref := range forest.Refs() {
		node, ok := forest.Lookup(ref)
		if !ok {
			continue
		}

		path, err := reconstructor.Reconstruct(ref)
		if err != nil {
			continue
		}

		rec, ok, err := classifier.Classify(path, node.Attributes)
		if err != nil || !ok {
			continue
		}
		results = append(results, rec)
	}

	return results, nil
}
