package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ivoronin/linkctl/internal/linktypes"
	"github.com/ivoronin/linkctl/internal/undo"
)

type undoOptions struct {
	actionLogPath string
}

func newUndoCmd() *cobra.Command {
	opts := &undoOptions{}

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent mutation not already compensated",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runUndo(opts)
		},
	}

	cmd.Flags().StringVar(&opts.actionLogPath, "action-log", "", "Path to the action log (default: per-user location)")

	return cmd
}

func runUndo(opts *undoOptions) error {
	log, err := openActionLog(opts.actionLogPath)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer func() { _ = log.Close() }()

	engine := undo.New(log, newMutationEngine(log))
	target, err := engine.FindTarget()
	if err != nil {
		return err
	}
	if err := engine.Undo(); err != nil {
		return fmt.Errorf("undo %s: %w", target.LinkPath, err)
	}
	fmt.Printf("undid %s on %s\n", target.Kind, target.LinkPath)
	return nil
}

type historyOptions struct {
	actionLogPath string
	limit         int
}

func newHistoryCmd() *cobra.Command {
	opts := &historyOptions{limit: 20}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent action log entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHistory(opts)
		},
	}

	cmd.Flags().StringVar(&opts.actionLogPath, "action-log", "", "Path to the action log (default: per-user location)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", opts.limit, "Maximum number of entries to show")

	return cmd
}

func runHistory(opts *historyOptions) error {
	log, err := openActionLog(opts.actionLogPath)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer func() { _ = log.Close() }()

	entries, err := log.List(0, opts.limit)
	if err != nil {
		return fmt.Errorf("list action log: %w", err)
	}

	for _, rec := range entries {
		printHistoryEntry(rec)
	}
	return nil
}

func printHistoryEntry(rec linktypes.ActionRecord) {
	status := "ok"
	if !rec.Success {
		status = "failed"
		if rec.ErrorMsg != nil {
			status = "failed: " + *rec.ErrorMsg
		}
	}
	fmt.Fprintf(os.Stdout, "#%-6d %-9s %-8s %s (%s) — %s\n",
		rec.ID, rec.Kind, rec.LinkKind, rec.LinkPath, humanize.Time(rec.Timestamp), status)
}
