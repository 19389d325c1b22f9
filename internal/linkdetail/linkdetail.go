// Package linkdetail enriches a LinkRecord into a LinkDetail: resolved
// target, timestamps, owner, and attribute set (spec.md §3).
//
// Grounded on original_source/src-tauri/src/commands/details.rs: the
// relative-target resolution against the link's parent directory, the
// attribute-bit mapping, and the owner lookup via an OS utility
// invocation (PowerShell's Get-Acl) are carried over in Go idiom.
package linkdetail

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

// OwnerResolver looks up the owning principal for a path. Implemented
// via a PowerShell Get-Acl invocation on Windows (owner_windows.go)
// and faked in tests.
type OwnerResolver interface {
	Owner(path string) string
}

// ResolveTarget resolves storedTarget against linkPath's parent
// directory when it is not already absolute (spec.md §3, details.rs
// resolve_target).
func ResolveTarget(linkPath, storedTarget string) string {
	if storedTarget == "" {
		return ""
	}
	if filepath.IsAbs(storedTarget) {
		return filepath.Clean(storedTarget)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(linkPath), storedTarget))
}

// Enrich builds a LinkDetail for rec, reading metadata without
// traversing the link itself for Created/Modified/Attributes/Object,
// and classifying Status from the resolved target's own metadata
// (spec.md §3).
func Enrich(rec linktypes.LinkRecord, owners OwnerResolver) linktypes.LinkDetail {
	resolvedTarget := ResolveTarget(rec.Path, rec.Target)

	detail := linktypes.LinkDetail{
		LinkRecord:     rec,
		ResolvedTarget: resolvedTarget,
	}

	if info, err := os.Lstat(rec.Path); err == nil {
		detail.Modified = info.ModTime()
		detail.Created = creationTime(info)
		detail.Attributes = attributesOf(info)
		if info.IsDir() {
			detail.Object = linktypes.ObjectDirectory
		}
	}

	if owners != nil {
		detail.Owner = owners.Owner(rec.Path)
	}

	detail.Status = classifyStatus(resolvedTarget)

	return detail
}

// classifyStatus stats the resolved target (spec.md §3 / details.rs
// classify_status).
func classifyStatus(resolvedTarget string) linktypes.Status {
	if resolvedTarget == "" {
		return linktypes.Broken("target path is empty")
	}
	if _, err := os.Stat(resolvedTarget); err != nil {
		if os.IsNotExist(err) {
			return linktypes.Broken("target does not exist")
		}
		if os.IsPermission(err) {
			return linktypes.AccessDeniedStatus
		}
		return linktypes.Broken(err.Error())
	}
	return linktypes.OkStatus
}

// creationTime is best-effort: Go's os.FileInfo does not expose
// creation time portably, so the Windows-specific Attr/creation-time
// probing lives in attrs_windows.go; this fallback returns the zero
// value, matching the detail struct's zero-value Created when the
// platform can't report it.
func creationTime(info os.FileInfo) time.Time {
	if ct, ok := platformCreationTime(info); ok {
		return ct
	}
	return time.Time{}
}
