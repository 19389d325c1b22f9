// Command linkctl inventories, validates, mutates, and undoes NTFS
// symbolic links, junctions, and hard links on a Windows volume.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "linkctl",
		Short:   "Inventory and manage NTFS links",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newScanCmd())
	root.AddCommand(newDetailCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newRetargetCmd())
	root.AddCommand(newUndoCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newExportCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
