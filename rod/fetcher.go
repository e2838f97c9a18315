// Package rod fetches pages through a headless Chrome so that sites which
// render their content with JavaScript can be crawled.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitevec"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

var _ sitevec.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using browser automation.
// A document response outside 2xx fails with *sitevec.FetchError.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	managers []ManagerOption
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter recycles the browser after n rendered pages.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.managers = append(f.managers, WithMaxPages(n))
	}
}

// NewFetcher launches a headless browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managers...)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EUNAVAILABLE, "browser unavailable: %v", err)
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", sitevec.Errorf(sitevec.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = page.Close() }()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)
	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})
	if err := page.Navigate(url); err != nil {
		return "", pageError(ctx, "navigating", url, err)
	}
	waitResponse()
	if err := ctx.Err(); err != nil {
		return "", pageError(ctx, "navigating", url, err)
	}
	if status < 200 || status > 299 {
		return "", &sitevec.FetchError{URL: url, StatusCode: status}
	}
	if err := page.WaitLoad(); err != nil {
		return "", pageError(ctx, "loading", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", pageError(ctx, "reading", url, err)
	}
	return html, nil
}

// pageError prefers the context error so that timeouts and cancellation
// are recognisable with errors.Is.
func pageError(ctx context.Context, op, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", op, url, ctxErr)
	}
	return fmt.Errorf("%s %s: %w", op, url, err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
