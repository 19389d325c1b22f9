package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivoronin/linkctl/internal/linktypes"
)

type mutateOptions struct {
	actionLogPath string
	kind          string
	asDirectory   bool
}

func newCreateCmd() *cobra.Command {
	opts := &mutateOptions{}

	cmd := &cobra.Command{
		Use:   "create <link> <target>",
		Short: "Create a symlink, junction, or hard link",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runCreate(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.actionLogPath, "action-log", "", "Path to the action log (default: per-user location)")
	cmd.Flags().StringVar(&opts.kind, "kind", "symlink", "Link kind: symlink, junction, or hardlink")
	cmd.Flags().BoolVar(&opts.asDirectory, "directory", false, "Hint that target is a directory (symlink only)")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	opts := &mutateOptions{}

	cmd := &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a link or file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDelete(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.actionLogPath, "action-log", "", "Path to the action log (default: per-user location)")

	return cmd
}

func newRetargetCmd() *cobra.Command {
	opts := &mutateOptions{}

	cmd := &cobra.Command{
		Use:   "retarget <path> <new-target>",
		Short: "Repoint an existing link at a new target",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRetarget(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.actionLogPath, "action-log", "", "Path to the action log (default: per-user location)")

	return cmd
}

func parseMutateKind(s string) (linktypes.Kind, error) {
	switch s {
	case "symlink":
		return linktypes.Symlink, nil
	case "junction":
		return linktypes.Junction, nil
	case "hardlink":
		return linktypes.Hardlink, nil
	default:
		return 0, fmt.Errorf("unknown --kind %q (want symlink, junction, or hardlink)", s)
	}
}

func runCreate(link, target string, opts *mutateOptions) error {
	kind, err := parseMutateKind(opts.kind)
	if err != nil {
		return err
	}

	log, err := openActionLog(opts.actionLogPath)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer func() { _ = log.Close() }()

	engine := newMutationEngine(log)
	if err := engine.Create(link, target, kind, opts.asDirectory); err != nil {
		return fmt.Errorf("create %s: %w", link, err)
	}
	fmt.Printf("created %s -> %s (%s)\n", link, target, kind)
	return nil
}

func runDelete(path string, opts *mutateOptions) error {
	log, err := openActionLog(opts.actionLogPath)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer func() { _ = log.Close() }()

	engine := newMutationEngine(log)
	if err := engine.Delete(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	fmt.Printf("deleted %s\n", path)
	return nil
}

func runRetarget(path, newTarget string, opts *mutateOptions) error {
	log, err := openActionLog(opts.actionLogPath)
	if err != nil {
		return fmt.Errorf("open action log: %w", err)
	}
	defer func() { _ = log.Close() }()

	engine := newMutationEngine(log)
	if err := engine.Retarget(path, newTarget); err != nil {
		return fmt.Errorf("retarget %s: %w", path, err)
	}
	fmt.Printf("retargeted %s -> %s\n", path, newTarget)
	return nil
}
