package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivoronin/linkctl/internal/linkdetail"
	"github.com/ivoronin/linkctl/internal/linktypes"
)

func newDetailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <path>",
		Short: "Show resolved target, timestamps, owner, and attributes for one link",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDetail(args[0])
		},
	}
}

func runDetail(path string) error {
	enricher := newEnricher()
	rec := linkdetail.Inspect(path)
	detail := enricher.Enrich(rec)

	fmt.Fprintf(os.Stdout, "path:            %s\n", detail.Path)
	fmt.Fprintf(os.Stdout, "resolved target: %s\n", detail.ResolvedTarget)
	fmt.Fprintf(os.Stdout, "status:          %s\n", detail.Status)
	fmt.Fprintf(os.Stdout, "object type:     %v\n", objectTypeLabel(detail.Object))
	fmt.Fprintf(os.Stdout, "created:         %s\n", detail.Created)
	fmt.Fprintf(os.Stdout, "modified:        %s\n", detail.Modified)
	fmt.Fprintf(os.Stdout, "owner:           %s\n", detail.Owner)
	fmt.Fprintf(os.Stdout, "attributes:      %s\n", attrLabel(detail.Attributes))
	return nil
}

func objectTypeLabel(o linktypes.ObjectKind) string {
	if o == linktypes.ObjectDirectory {
		return "directory"
	}
	return "file"
}

func attrLabel(a linktypes.Attr) string {
	var labels []string
	if a&linktypes.AttrReadOnly != 0 {
		labels = append(labels, "ReadOnly")
	}
	if a&linktypes.AttrHidden != 0 {
		labels = append(labels, "Hidden")
	}
	if a&linktypes.AttrSystem != 0 {
		labels = append(labels, "System")
	}
	if a&linktypes.AttrArchive != 0 {
		labels = append(labels, "Archive")
	}
	if a&linktypes.AttrReparsePoint != 0 {
		labels = append(labels, "ReparsePoint")
	}
	if len(labels) == 0 {
		return "Normal"
	}
	joined := labels[0]
	for _, l := range labels[1:] {
		joined += "|" + l
	}
	return joined
}
