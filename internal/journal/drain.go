package journal

import "github.com/pkg/errors"

// PageFetcher retrieves one page of change-journal data starting at
// startingRef, returning the raw bytes. It is implemented by the
// Windows-specific FSCTL_ENUM_USN_DATA caller (reader_windows.go) and
// faked directly in tests.
type PageFetcher func(startingRef uint64) ([]byte, error)

// Drain repeatedly fetches and ingests pages into forest starting from
// startingRef, advancing via each page's header starting reference.
// Termination (spec.md §4.5 step 6) happens on end-of-data (an empty
// page), on a starting reference of zero, or when ingestion fails to
// progress (fixed-point guard against malformed data looping forever).
func Drain(forest *Forest, fetch PageFetcher, startingRef uint64) error {
	for {
		buf, err := fetch(startingRef)
		if err != nil {
			return errors.Wrap(err, "fetch usn page")
		}
		if len(buf) <= pageHeaderSize {
			return nil
		}

		next, err := forest.IngestPage(buf)
		if err != nil {
			return errors.Wrap(err, "ingest usn page")
		}

		if next == 0 {
			return nil
		}
		if next == startingRef {
			return errors.New("usn enumeration made no progress (fixed-point guard)")
		}
		startingRef = next
	}
}
