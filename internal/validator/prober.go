package validator

import (
	"context"
	"os"

	"github.com/ivoronin/linkctl/internal/linkdetail"
	"github.com/ivoronin/linkctl/internal/linktypes"
)

// MetadataProber resolves rec.Target against rec.Path and stats it,
// classifying NotFound/PermissionDenied/other exactly like
// linkdetail.Enrich's status classification (spec.md §4.3 "Broken"
// reasons, §5 validation fan-out).
type MetadataProber struct{}

func (MetadataProber) Probe(_ context.Context, rec linktypes.LinkRecord) linktypes.Status {
	if rec.Target == "" {
		return linktypes.Broken("target path is empty")
	}

	resolved := linkdetail.ResolveTarget(rec.Path, rec.Target)

	if _, err := os.Stat(resolved); err != nil {
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
