package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func diffCmd(opts *globalOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the journal that turns one fixture into another",
		Long: `Commit every tree of the OLD fixture, then diff each tree of
the NEW fixture against the result and print its journal.

Examples:
  reconcile diff list-before list-after
  reconcile diff fixtures/a.json fixtures/b.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runDiff(cmd, e, args[0], args[1], timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for deferred values")

	return cmd
}

func runDiff(cmd *cobra.Command, e *env, oldName, newName string, timeout time.Duration) error {
	ctx := cmd.Context()
	before, err := e.source.Load(ctx, oldName)
	if err != nil {
		return err
	}
	after, err := e.source.Load(ctx, newName)
	if err != nil {
		return err
	}

	body := newBody()
	c := e.container(body)
	for i := 0; i < before.Len(); i++ {
		if err := step(ctx, c, before, i, timeout); err != nil {
			return fmt.Errorf("%s tree %d: %w", before.Name, i, err)
		}
		c.Commit(ctx)
	}

	out := cmd.OutOrStdout()
	for i := 0; i < after.Len(); i++ {
		if err := step(ctx, c, after, i, timeout); err != nil {
			return fmt.Errorf("%s tree %d: %w", after.Name, i, err)
		}
		fmt.Fprint(out, describe(c, uint64(i+1)))
		c.Commit(ctx)
	}
	fmt.Fprintln(out, body.InnerHTML())
	return nil
}
