package crawl

import "github.com/fwojciec/sitevec"

// Compile-time interface verification.
var _ sitevec.URLFrontier = (*Frontier)(nil)

// compactThreshold is the number of consumed queue slots after which the
// backing array is compacted.
const compactThreshold = 1024

// Frontier is an in-memory FIFO URL frontier with an exact visited set.
// Push never deduplicates; duplicates are discarded by the caller through
// Visit after Pop. A Frontier belongs to a single crawl session and is not
// safe for concurrent use.
type Frontier struct {
	queue   []string
	head    int
	visited map[string]struct{}
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
	}
}

// Push appends a URL to the end of the queue.
func (f *Frontier) Push(url string) {
	f.queue = append(f.queue, url)
}

// Pop removes and returns the URL at the front of the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	if f.head == len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++

	if f.head >= compactThreshold && f.head*2 >= len(f.queue) {
		n := copy(f.queue, f.queue[f.head:])
		f.queue = f.queue[:n]
		f.head = 0
	}
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// Visit marks the URL as visited.
// Returns false if the URL had already been visited.
func (f *Frontier) Visit(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// Visited reports whether the URL has been visited.
func (f *Frontier) Visited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// VisitedCount returns the size of the visited set.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
