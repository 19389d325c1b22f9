package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivoronin/linkctl/internal/exporter"
	"github.com/ivoronin/linkctl/internal/scanner"
)

type exportOptions struct {
	excludes   []string
	workers    int
	noProgress bool
	format     string
	output     string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{workers: runtime.NumCPU(), format: "csv"}

	cmd := &cobra.Command{
		Use:   "export <drive>",
		Short: "Scan a drive, enrich every link, and write the result to CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runExport(args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.excludes, "exclude", "e", nil, "Path prefixes to exclude from the walk fallback")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel walk workers")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "Output format: csv or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (required)")

	return cmd
}

func runExport(drive string, opts *exportOptions) error {
	if opts.output == "" {
		return fmt.Errorf("--output is required")
	}

	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	showProgress := !opts.noProgress

	errCh := make(chan error, 100)
	go drainErrors(errCh)
	defer close(errCh)

	journalEngine, closeJournal, err := newJournalEngine(drive)
	if err != nil {
		journalEngine = nil
	}
	defer func() { _ = closeJournal() }()

	s := scanner.New(journalEngine, newWalkFactory(opts.workers, showProgress, errCh), opts.excludes, nil, nil)
	result, err := s.Run(context.Background(), drive)
	if err != nil {
		return fmt.Errorf("scan %s: %w", drive, err)
	}

	if err := exporter.Export(context.Background(), result.Entries, newEnricher(), format, opts.output); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("exported %d links to %s\n", len(result.Entries), opts.output)
	return nil
}

func parseFormat(s string) (exporter.Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return exporter.FormatCSV, nil
	case "json":
		return exporter.FormatJSON, nil
	default:
		return 0, fmt.Errorf("unknown --format %q (want csv or json)", s)
	}
}
