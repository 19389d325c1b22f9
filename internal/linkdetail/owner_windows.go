//go:build windows

package linkdetail

import (
	"os/exec"
	"strings"
)

// PowerShellOwnerResolver shells out to `Get-Acl`, matching
// details.rs's resolve_owner: no suitable library in the examples
// wraps the Windows security-descriptor owner lookup, and the OS
// utility invocation is the spec's own named mechanism for this kind
// of query (spec.md §6).
type PowerShellOwnerResolver struct{}

func (PowerShellOwnerResolver) Owner(path string) string {
	const script = "(Get-Acl -LiteralPath $args[0]).Owner"
	out, err := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script, path).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
