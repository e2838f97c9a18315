package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sitevec"
)

// Run executes the target command.
func (c *TargetCmd) Run(deps *Dependencies) error {
	target, err := deps.Ingestion.FindTarget(deps.Ctx, deps.Config.VectorStoreID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitevec.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d files  created %s\n",
		target.ID, target.Name, target.Status, target.FileCount, target.CreatedAt.Local().Format(time.DateOnly))
	return nil
}
