// Package crawl provides breadth-first site crawling with batched ingestion.
// It coordinates fetching, extraction, staging and upload of the pages of a
// single website into a remote vector store.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fwojciec/sitevec"
	"github.com/fwojciec/sitevec/bloom"
)

// Duplicate content detection sizing.
const (
	dedupeExpectedPages     = 100000
	dedupeFalsePositiveRate = 0.0001
)

// Crawler crawls a site starting from a seed URL and ingests the text of
// every same-host page into the configured vector store.
type Crawler struct {
	Fetcher   sitevec.Fetcher
	Extractor sitevec.Extractor
	Converter sitevec.Converter
	Links     sitevec.LinkExtractor
	Ingestion sitevec.IngestionService

	// Staging returns a fresh staging store for each crawl.
	Staging func() sitevec.StagingStore

	// TargetID identifies the vector store receiving the pages.
	TargetID string

	// BatchLimit is the number of staged files per upload.
	// Defaults to DefaultBatchLimit.
	BatchLimit int

	// MaxPages stops the crawl after that many fetches. Zero means no limit.
	MaxPages int

	// DedupeContent skips pages whose text was already staged in this crawl.
	DedupeContent bool

	// Optional collaborators.
	RateLimiter  sitevec.DomainLimiter
	Robots       sitevec.RobotsPolicy
	Sitemaps     sitevec.SitemapService
	Runs         sitevec.RunService
	TokenCounter sitevec.TokenCounter
}

// State is the lifecycle state of a crawl.
type State int

const (
	StateInit State = iota
	StateCrawling
	StateDraining
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateCrawling:
		return "crawling"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result holds the outcome of a crawl.
type Result struct {
	RunID   string
	State   State
	Visited int
	Staged  int
	Failed  int
	Skipped int
	Batches int
	Bytes   int
	Tokens  int

	// StagingDir is the transient directory of the crawl. After a failed
	// crawl it still holds the files that were not uploaded.
	StagingDir string
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	URL    string
	Error  error
	Reason string

	// Visited and Queued are the frontier counters at the time of the event.
	Visited int
	Queued  int

	// Files and Upload are set on ProgressFlushed.
	Files  int
	Upload *sitevec.UploadResult
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressStaged
	ProgressSkipped
	ProgressFailed
	ProgressFlushed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawl crawls the site rooted at seedURL.
//
// Per-page failures are reported through progress and never abort the
// crawl. Invalid input and configuration return EINVALID, an unusable
// target returns a *sitevec.TargetError, and a failed flush returns a
// *sitevec.UploadError. The returned Result is non-nil whenever crawling
// started, including on failure.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, progress ProgressFunc) (*Result, error) {
	seed, err := ParseSeed(seedURL)
	if err != nil {
		return nil, err
	}
	if c.Staging == nil {
		return nil, sitevec.Errorf(sitevec.EINTERNAL, "crawler has no staging store")
	}

	target, err := c.Ingestion.FindTarget(ctx, c.TargetID)
	if err != nil {
		if sitevec.ErrorCode(err) == sitevec.EINVALID {
			return nil, err
		}
		return nil, &sitevec.TargetError{ID: c.TargetID, Err: err}
	}

	s := &session{
		c:        c,
		seed:     seed,
		target:   target,
		frontier: NewFrontier(),
		batch:    NewBatch(c.BatchLimit),
		store:    c.Staging(),
		progress: progress,
	}
	if c.DedupeContent {
		s.seen = bloom.NewFilter(dedupeExpectedPages, dedupeFalsePositiveRate)
	}

	if err := s.store.Create(); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	s.result.StagingDir = s.store.Dir()
	s.startRun(ctx)

	err = s.run(ctx)
	if err == nil {
		if rmErr := s.store.Remove(); rmErr != nil {
			err = fmt.Errorf("removing staging directory: %w", rmErr)
		}
	}
	if err != nil {
		s.state = StateFailed
	} else {
		s.state = StateDone
	}
	s.result.State = s.state
	s.finishRun(ctx, err)
	s.report(ProgressEvent{Type: ProgressFinished, Error: err})

	return &s.result, err
}

// session holds the mutable state of one crawl invocation.
type session struct {
	c        *Crawler
	seed     *url.URL
	target   *sitevec.Target
	frontier *Frontier
	batch    *Batch
	store    sitevec.StagingStore
	seen     *bloom.Filter
	progress ProgressFunc
	state    State
	result   Result
}

func (s *session) run(ctx context.Context) error {
	s.state = StateCrawling
	s.frontier.Push(s.seed.String())
	s.seedFromSitemap(ctx)
	s.report(ProgressEvent{Type: ProgressStarted, URL: s.seed.String()})

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.c.MaxPages > 0 && s.result.Visited >= s.c.MaxPages {
			break
		}

		pageURL, ok := s.frontier.Pop()
		if !ok {
			break
		}
		if !s.frontier.Visit(pageURL) {
			continue
		}
		s.result.Visited++

		if err := s.visit(ctx, pageURL); err != nil {
			return err
		}
	}

	s.state = StateDraining
	if s.batch.Len() > 0 {
		return s.flush(ctx)
	}
	return nil
}

// visit processes one page. Only errors that must stop the crawl are
// returned; page-level failures are reported and swallowed.
func (s *session) visit(ctx context.Context, pageURL string) error {
	page, err := url.Parse(pageURL)
	if err != nil {
		s.fail(pageURL, err)
		return nil
	}

	if s.c.RateLimiter != nil {
		if err := s.c.RateLimiter.Wait(ctx, page.Host); err != nil {
			return err
		}
	}

	html, err := s.c.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.fail(pageURL, err)
		return nil
	}

	hrefs, err := s.c.Links.ExtractLinks(html)
	if err != nil {
		s.fail(pageURL, fmt.Errorf("extracting links: %w", err))
		return nil
	}
	extracted, err := s.c.Extractor.Extract(html)
	if err != nil {
		s.fail(pageURL, fmt.Errorf("extracting content: %w", err))
		return nil
	}
	text, err := s.c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		s.fail(pageURL, fmt.Errorf("converting content: %w", err))
		return nil
	}

	switch {
	case strings.TrimSpace(text) == "":
		s.skip(pageURL, "no text content")
	case s.seen != nil && s.seen.Seen(text):
		s.skip(pageURL, "duplicate content")
	default:
		file, err := s.store.Stage(ctx, pageURL, text)
		if err != nil {
			s.fail(pageURL, fmt.Errorf("staging: %w", err))
			return nil
		}
		s.result.Staged++
		s.result.Bytes += file.Bytes
		if s.c.TokenCounter != nil {
			if tokens, err := s.c.TokenCounter.CountTokens(ctx, text); err == nil {
				s.result.Tokens += tokens
			}
		}
		s.report(ProgressEvent{Type: ProgressStaged, URL: pageURL})

		if s.batch.Add(file) {
			if err := s.flush(ctx); err != nil {
				return err
			}
		}
	}

	for _, link := range ScopeLinks(page, s.seed.Host, hrefs, s.frontier.Visited) {
		if s.c.Robots != nil && !s.c.Robots.Allowed(ctx, link) {
			continue
		}
		s.frontier.Push(link)
	}
	return nil
}

// flush uploads the current batch and deletes its files. A failed upload
// leaves the files on disk and the batch untouched.
func (s *session) flush(ctx context.Context) error {
	files := s.batch.Files()
	uploads := make([]sitevec.UploadFile, len(files))
	for i, f := range files {
		uploads[i] = sitevec.UploadFile{
			Name: f.Name,
			Open: func() (io.ReadCloser, error) { return s.store.Open(f) },
		}
	}

	res, err := s.c.Ingestion.UploadBatch(ctx, s.target.ID, uploads)
	if err != nil {
		return &sitevec.UploadError{Paths: s.batch.Paths(), Err: err}
	}

	var errs []error
	for _, f := range files {
		if err := s.store.Delete(f); err != nil {
			errs = append(errs, err)
		}
	}
	n := len(files)
	s.batch.Reset()
	s.result.Batches++
	s.recordUpload(ctx, n, res)
	s.report(ProgressEvent{Type: ProgressFlushed, Files: n, Upload: res})

	if len(errs) > 0 {
		return fmt.Errorf("deleting uploaded files: %w", errors.Join(errs...))
	}
	return nil
}

// seedFromSitemap queues the same-host URLs of the seed's sitemap after the
// seed itself. Sitemap failures are reported and otherwise ignored.
func (s *session) seedFromSitemap(ctx context.Context) {
	if s.c.Sitemaps == nil {
		return
	}
	urls, err := s.c.Sitemaps.DiscoverURLs(ctx, s.seed.String())
	if err != nil {
		s.report(ProgressEvent{Type: ProgressFailed, URL: s.seed.String(), Error: fmt.Errorf("sitemap: %w", err)})
		return
	}
	for _, link := range ScopeLinks(s.seed, s.seed.Host, urls, nil) {
		s.frontier.Push(link)
	}
}

func (s *session) fail(pageURL string, err error) {
	s.result.Failed++
	s.report(ProgressEvent{Type: ProgressFailed, URL: pageURL, Error: err})
}

func (s *session) skip(pageURL, reason string) {
	s.result.Skipped++
	s.report(ProgressEvent{Type: ProgressSkipped, URL: pageURL, Reason: reason})
}

func (s *session) report(event ProgressEvent) {
	if s.progress == nil {
		return
	}
	event.Visited = s.frontier.VisitedCount()
	event.Queued = s.frontier.Len()
	s.progress(event)
}

// The run ledger is best-effort: failing to record a run never fails the crawl.

func (s *session) startRun(ctx context.Context) {
	if s.c.Runs == nil {
		return
	}
	run := &sitevec.Run{
		SeedURL:  s.seed.String(),
		TargetID: s.target.ID,
	}
	if err := s.c.Runs.CreateRun(ctx, run); err == nil {
		s.result.RunID = run.ID
	}
}

func (s *session) recordUpload(ctx context.Context, files int, res *sitevec.UploadResult) {
	if s.c.Runs == nil || s.result.RunID == "" {
		return
	}
	upload := &sitevec.Upload{RunID: s.result.RunID, Files: files}
	if res != nil {
		upload.BatchID = res.BatchID
		upload.Status = res.Status
		upload.Completed = res.Completed
		upload.Failed = res.Failed
	}
	_ = s.c.Runs.CreateUpload(ctx, upload)
}

func (s *session) finishRun(ctx context.Context, crawlErr error) {
	if s.c.Runs == nil || s.result.RunID == "" {
		return
	}
	upd := sitevec.RunUpdate{
		State:   sitevec.RunStateDone,
		Staged:  s.result.Staged,
		Failed:  s.result.Failed,
		Batches: s.result.Batches,
		Bytes:   s.result.Bytes,
	}
	if crawlErr != nil {
		upd.State = sitevec.RunStateFailed
		upd.Error = crawlErr.Error()
	}
	// The crawl context may already be canceled; the ledger entry should
	// still be closed.
	_, _ = s.c.Runs.FinishRun(context.WithoutCancel(ctx), s.result.RunID, upd)
}
