// Package volio opens volume devices and files with backup+reparse
// semantics and scoped handle lifetimes (spec.md §4.2).
package volio

// Handle wraps an open OS handle with guaranteed release on every exit
// path. A Handle is considered valid iff it is neither null nor the
// platform's sentinel invalid value; callers should rely on the error
// returned by the Open* constructors rather than probing validity
// directly.
type Handle struct {
	impl handleImpl
}

// Close releases the underlying OS handle. It is safe to call Close
// more than once.
func (h *Handle) Close() error {
	if h == nil || h.impl == nil {
		return nil
	}
	err := h.impl.Close()
	h.impl = nil
	return err
}

// handleImpl is implemented per-platform (volio_windows.go,
// volio_other.go).
type handleImpl interface {
	Close() error
}
