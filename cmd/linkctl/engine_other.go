//go:build !windows

package main

import "github.com/ivoronin/linkctl/internal/scanner"

// newJournalEngine reports no journal engine available on non-Windows
// hosts, so the scanner always falls through to the walker.
func newJournalEngine(string) (scanner.JournalEngine, func() error, error) {
	return nil, func() error { return nil }, nil
}
