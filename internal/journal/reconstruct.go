package journal

import (
	"strings"

	"github.com/pkg/errors"
)

// maxChainDepth bounds parent-chain traversal to defeat cycles
// (spec.md §4.5 Design Notes).
const maxChainDepth = 256

// Reconstructor materializes absolute paths from file-reference
// numbers via the parent chain, memoizing results per instance.
type Reconstructor struct {
	forest    *Forest
	driveRoot string // e.g. "C:\"
	cache     map[uint64]string
}

// NewReconstructor builds a path reconstructor over forest, prefixing
// every resolved path with driveRoot (the normalized drive form, e.g.
// "C:\").
func NewReconstructor(forest *Forest, driveRoot string) *Reconstructor {
	return &Reconstructor{
		forest:    forest,
		driveRoot: driveRoot,
		cache:     make(map[uint64]string),
	}
}

// Reconstruct follows parent references up the forest for ref, caching
// the result. It stops on a self-parent or a zero parent, and bounds
// chain depth at 256 to defeat cycles (spec.md §4.5). An empty name
// (root) contributes nothing to the path.
func (r *Reconstructor) Reconstruct(ref uint64) (string, error) {
	if cached, ok := r.cache[ref]; ok {
		return cached, nil
	}

	var segments []string
	cur := ref
	for depth := 0; ; depth++ {
		if depth >= maxChainDepth {
			return "", errors.Errorf("file-reference chain exceeds depth bound %d (ref=%d)", maxChainDepth, ref)
		}

		if cached, ok := r.cache[cur]; ok && cur != ref {
			if seg := strings.TrimSuffix(strings.TrimPrefix(cached, r.driveRoot), `\`); seg != "" {
				segments = append(segments, seg)
			}
			break
		}

		node, ok := r.forest.Lookup(cur)
		if !ok {
			break
		}
		if node.Name != "" {
			segments = append(segments, node.Name)
		}

		if node.Parent == cur || node.Parent == 0 {
			break
		}
		cur = node.Parent
	}

	path := r.driveRoot + joinReverse(segments)
	r.cache[ref] = path
	return path, nil
}

// joinReverse joins segments (collected root-ward, i.e. leaf-first)
// into a `\`-separated path in root-to-leaf order.
func joinReverse(segments []string) string {
	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
		if i > 0 {
			b.WriteByte('\\')
		}
	}
	return b.String()
}
