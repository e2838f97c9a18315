package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/crawl"
)

// urlWidth is the display width of URLs in progress lines.
const urlWidth = 80

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Crawling %s\n", event.URL)
		case crawl.ProgressStaged:
			fmt.Fprintf(deps.Stdout, "  + %s\n", crawl.TruncateURL(event.URL, urlWidth))
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", crawl.TruncateURL(event.URL, urlWidth), event.Reason)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", crawl.TruncateURL(event.URL, urlWidth), event.Error)
		case crawl.ProgressFlushed:
			status := ""
			if event.Upload != nil {
				status = fmt.Sprintf(" (%s, %d completed, %d failed)", event.Upload.Status, event.Upload.Completed, event.Upload.Failed)
			}
			fmt.Fprintf(deps.Stdout, "  Uploaded %d files%s\n", event.Files, status)
		case crawl.ProgressFinished:
			// Summary printed after crawl completes
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", crawlErrorMessage(err))
		var uploadErr *sitevec.UploadError
		if errors.As(err, &uploadErr) && result != nil && result.StagingDir != "" {
			fmt.Fprintf(deps.Stderr, "  %d staged files kept in %s\n", len(uploadErr.Paths), result.StagingDir)
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", result.Summary())
	fmt.Fprintln(deps.Stdout, "Crawl complete")
	return nil
}

// crawlErrorMessage keeps the context of typed crawl errors, which may
// wrap application errors of their own.
func crawlErrorMessage(err error) string {
	var uploadErr *sitevec.UploadError
	var targetErr *sitevec.TargetError
	if errors.As(err, &uploadErr) || errors.As(err, &targetErr) {
		return err.Error()
	}
	return sitevec.ErrorMessage(err)
}
