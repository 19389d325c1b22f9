// Package journal iterates NTFS change-journal (USN) records into an
// in-memory file-reference forest and reconstructs absolute paths from
// file-reference numbers via the parent chain (spec.md §4.5).
//
// The binary record parser in this file is platform-independent and
// operates on raw byte buffers, matching the corpus's habit of
// hand-rolling bounds-checked parsers for proprietary, offset-addressed
// record formats (see DESIGN.md).
package journal

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// usnRecordV2HeaderSize is the fixed portion of a USN_RECORD_V2:
// RecordLength(4) MajorVersion(2) MinorVersion(2)
// FileReferenceNumber(8) ParentFileReferenceNumber(8) Usn(8)
// TimeStamp(8) Reason(4) SourceInfo(4) SecurityId(4)
// FileAttributes(4) FileNameLength(2) FileNameOffset(2) = 60 bytes.
const usnRecordV2HeaderSize = 60

// pageHeaderSize is the 8-byte "next starting file-reference" that
// prefixes every page returned by FSCTL_ENUM_USN_DATA.
const pageHeaderSize = 8

// wantedMajorVersion is the only USN record version this reader
// parses (spec.md §4.5 step 3).
const wantedMajorVersion = 2

// Record is a single parsed change-journal record.
type Record struct {
	FileReferenceNumber       uint64
	ParentFileReferenceNumber uint64
	FileAttributes            uint32
	FileName                  string
}

// ParsePage parses one page of change-journal data: an 8-byte "next
// starting file-reference" header followed by concatenated
// variable-length records. It returns the decoded records and the next
// starting reference to resume enumeration from.
//
// Termination signals, per spec.md §4.5 steps 3 and 6, are reported to
// the caller rather than decided here: a returned-bytes value not
// exceeding the header size, a next-starting-reference of zero, or
// failure to progress are all conditions the caller (Drain)
// must check between calls.
func ParsePage(buf []byte) (nextStartingRef uint64, records []Record, err error) {
	if len(buf) <= pageHeaderSize {
		return 0, nil, nil
	}

	nextStartingRef = binary.LittleEndian.Uint64(buf[:pageHeaderSize])

	offset := pageHeaderSize
	for offset < len(buf) {
		rec, consumed, err := parseRecord(buf[offset:])
		if err != nil {
			return nextStartingRef, records, err
		}
		if consumed == 0 {
			break
		}
		if rec != nil {
			records = append(records, *rec)
		}
		offset += consumed
	}

	return nextStartingRef, records, nil
}

// parseRecord parses a single record at the head of buf, honoring its
// declared length (spec.md §4.5 step 3). It returns (nil, consumed,
// nil) for a well-formed record of an unwanted major version — the
// caller still advances by consumed bytes. consumed == 0 signals the
// page is exhausted (buf too short to hold another record length
// field).
func parseRecord(buf []byte) (*Record, int, error) {
	if len(buf) < 4 {
		return nil, 0, nil
	}

	recordLength := binary.LittleEndian.Uint32(buf[:4])
	if recordLength == 0 {
		return nil, 0, nil
	}
	if recordLength < usnRecordV2HeaderSize {
		return nil, 0, errors.Errorf("usn record length %d below fixed header size %d", recordLength, usnRecordV2HeaderSize)
	}
	if int(recordLength) > len(buf) {
		return nil, 0, errors.Errorf("usn record length %d extends past returned-bytes boundary %d", recordLength, len(buf))
	}

	rec := buf[:recordLength]

	majorVersion := binary.LittleEndian.Uint16(rec[4:6])
	if majorVersion != wantedMajorVersion {
		return nil, int(recordLength), nil
	}

	fileRef := binary.LittleEndian.Uint64(rec[8:16])
	parentRef := binary.LittleEndian.Uint64(rec[16:24])
	attrs := binary.LittleEndian.Uint32(rec[52:56])
	nameLen := binary.LittleEndian.Uint16(rec[56:58])
	nameOffset := binary.LittleEndian.Uint16(rec[58:60])

	name, err := decodeFileName(rec, nameOffset, nameLen)
	if err != nil {
		return nil, 0, err
	}

	return &Record{
		FileReferenceNumber:       fileRef,
		ParentFileReferenceNumber: parentRef,
		FileAttributes:            attrs,
		FileName:                  name,
	}, int(recordLength), nil
}

// decodeFileName extracts file-name bytes at the declared offset
// (length divisible by two, ending within the record), decodes them as
// little-endian 16-bit units, and preserves unpaired code units
// lossily via utf16.Decode's standard replacement-character behavior
// (spec.md §4.5 step 4).
func decodeFileName(rec []byte, nameOffset, nameLen uint16) (string, error) {
	if nameLen%2 != 0 {
		return "", errors.Errorf("usn record file-name length %d not divisible by two", nameLen)
	}
	end := int(nameOffset) + int(nameLen)
	if end > len(rec) {
		return "", errors.Errorf("usn record file-name [%d:%d] extends past record length %d", nameOffset, end, len(rec))
	}

	units := make([]uint16, nameLen/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(rec[int(nameOffset)+2*i : int(nameOffset)+2*i+2])
	}
	return string(utf16.Decode(units)), nil
}

// Insert adds a node to the forest keyed by file-reference number.
func (f *Forest) Insert(ref uint64, node linktypes.FileRefNode) {
	if f.nodes == nil {
		f.nodes = make(map[uint64]linktypes.FileRefNode)
	}
	f.nodes[ref] = node
}

// Forest is the in-memory file-reference graph built by a single
// journal scan. It is not safe for concurrent use; each scan owns its
// own Forest (spec.md §5 "Scanner state is not shared").
type Forest struct {
	nodes map[uint64]linktypes.FileRefNode
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{nodes: make(map[uint64]linktypes.FileRefNode)}
}

// Lookup returns the node for ref, if any.
func (f *Forest) Lookup(ref uint64) (linktypes.FileRefNode, bool) {
	n, ok := f.nodes[ref]
	return n, ok
}

// Len reports how many nodes the forest holds.
func (f *Forest) Len() int { return len(f.nodes) }

// Refs returns every file-reference number currently in the forest, in
// no particular order.
func (f *Forest) Refs() []uint64 {
	refs := make([]uint64, 0, len(f.nodes))
	for ref := range f.nodes {
		refs = append(refs, ref)
	}
	return refs
}

// IngestPage parses buf and inserts every decoded record into the
// forest, returning the next starting reference for the caller to
// resume enumeration from.
func (f *Forest) IngestPage(buf []byte) (nextStartingRef uint64, err error) {
	nextStartingRef, records, err := ParsePage(buf)
	for _, rec := range records {
		f.Insert(rec.FileReferenceNumber, linktypes.FileRefNode{
			Parent:     rec.ParentFileReferenceNumber,
			Name:       rec.FileName,
			Attributes: rec.FileAttributes,
		})
	}
	return nextStartingRef, err
}
