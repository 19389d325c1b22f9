//go:build !windows

package linkdetail

// PowerShellOwnerResolver is a no-op stand-in so this package compiles
// on non-Windows development hosts; the real owner lookup is
// owner_windows.go.
type PowerShellOwnerResolver struct{}

func (PowerShellOwnerResolver) Owner(string) string { return "" }
