package sitevec

import "context"

// URLFrontier is the pending-URL work queue of a crawl together with the
// set of URLs already processed.
type URLFrontier interface {
	// Push appends a URL to the end of the queue. It never deduplicates.
	Push(url string)

	// Pop removes and returns the URL at the front of the queue.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Visit marks the URL as visited.
	// Returns false if the URL had already been visited.
	Visit(url string) bool

	// Visited reports whether the URL has been visited.
	Visited(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// RobotsPolicy decides whether a URL may be crawled according to the
// site's robots.txt.
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}
