// Package reparse classifies reparse points into link kinds by
// interpreting their reparse tag (spec.md §4.3).
package reparse

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// Reparse tag values, as documented by the Windows SDK and exercised in
// other_examples/…sam-fakhreddine-fast-file-deletion…scanner_windows_reparse_test.go.go
// and other_examples/…krinkuto11…linkcount_windows.go.go.
const (
	TagMountPoint uint32 = 0xA0000003
	TagSymlink    uint32 = 0xA000000C
)

// DecodeTag interprets the first four bytes of a reparse data buffer
// as a little-endian tag and maps it to a Kind. Mount-point tag maps
// to Junction; symlink tag, or any other tag, conservatively maps to
// Symlink. Fails with IoError-equivalent if the buffer is shorter than
// the tag (spec.md §4.3).
func DecodeTag(buf []byte) (linktypes.Kind, error) {
	if len(buf) < 4 {
		return linktypes.Symlink, errors.Errorf("reparse buffer too short: %d bytes", len(buf))
	}
	tag := binary.LittleEndian.Uint32(buf[:4])
	if tag == TagMountPoint {
		return linktypes.Junction, nil
	}
	return linktypes.Symlink, nil
}

// ClassifyFallback classifies a link without its reparse tag. It
// resolves the stored target relative to the link's parent directory
// and calls it Junction iff the resolved path refers to a directory,
// else Symlink (spec.md §4.3). No classifier in this module calls it:
// when Classify fails, the walker, journal and mutation paths do not
// fall back to this heuristic (see DESIGN.md Open Question 3).
func ClassifyFallback(linkPath, target string) linktypes.Kind {
	resolved := target
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(linkPath), target)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return linktypes.Symlink
	}
	if info.IsDir() {
		return linktypes.Junction
	}
	return linktypes.Symlink
}
