package main

import (
	"fmt"

	sitevechttp "github.com/fwojciec/sitevec/http"
)

// Run executes the serve command. It blocks until the context is done.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := sitevechttp.NewServer()
	s.Addr = c.Addr
	s.Crawler = deps.Crawler
	s.Runs = deps.Runs
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}
