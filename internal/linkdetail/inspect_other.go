//go:build !windows

package linkdetail

import "github.com/ivoronin/linkctl/internal/linktypes"

// Inspect is a no-op stand-in so this package compiles on non-Windows
// development hosts; the real classification lives in
// inspect_windows.go.
func Inspect(path string) linktypes.LinkRecord {
	return linktypes.LinkRecord{Path: path}
}
