package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		return c.show(deps)
	}

	filter := sitevec.RunFilter{Limit: c.Limit}
	switch c.State {
	case "":
	case sitevec.RunStateCrawling, sitevec.RunStateDone, sitevec.RunStateFailed:
		filter.State = &c.State
	default:
		err := sitevec.Errorf(sitevec.EINVALID, "unknown run state %q", c.State)
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'sitevec crawl' to start one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %-8s  %s  %d staged  %d batches  %s\n",
			r.ID, r.State, r.StartedAt.Local().Format(time.DateTime), r.Staged, r.Batches, r.SeedURL)
	}
	return nil
}

func (c *RunsCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}
	uploads, err := deps.Runs.FindUploads(deps.Ctx, run.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run      %s\n", run.ID)
	fmt.Fprintf(deps.Stdout, "Seed     %s\n", run.SeedURL)
	fmt.Fprintf(deps.Stdout, "Target   %s\n", run.TargetID)
	fmt.Fprintf(deps.Stdout, "State    %s\n", run.State)
	fmt.Fprintf(deps.Stdout, "Started  %s\n", run.StartedAt.Local().Format(time.DateTime))
	if !run.FinishedAt.IsZero() {
		fmt.Fprintf(deps.Stdout, "Finished %s\n", run.FinishedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(deps.Stdout, "Pages    %d staged, %d failed (%s)\n", run.Staged, run.Failed, crawl.FormatBytes(run.Bytes))
	if run.Error != "" {
		fmt.Fprintf(deps.Stdout, "Error    %s\n", run.Error)
	}

	for i, u := range uploads {
		fmt.Fprintf(deps.Stdout, "  batch %d  %s  %s  %d files, %d completed, %d failed\n",
			i+1, u.BatchID, u.Status, u.Files, u.Completed, u.Failed)
	}
	return nil
}
