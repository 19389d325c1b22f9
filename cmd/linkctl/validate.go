package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ivoronin/linkctl/internal/scanner"
	"github.com/ivoronin/linkctl/internal/validator"
)

type validateOptions struct {
	excludes   []string
	workers    int
	noProgress bool
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{workers: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "validate <drive>",
		Short: "Scan a drive and re-check every link's target status",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.excludes, "exclude", "e", nil, "Path prefixes to exclude from the walk fallback")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", opts.workers, "Number of parallel walk workers")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress output")

	return cmd
}

func runValidate(drive string, opts *validateOptions) error {
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

	validated := validator.Validate(context.Background(), result.Entries, validator.MetadataProber{})
	for _, rec := range validated {
		fmt.Fprintf(os.Stdout, "%-9s %s -> %s [%s]\n", rec.Kind, rec.Path, rec.Target, rec.Status)
	}
	return nil
}
