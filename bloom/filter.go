// Package bloom provides duplicate content detection using Bloom filters.
package bloom

import (
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Filter remembers the hashes of page contents seen during a crawl.
// False positives are possible, so a small share of unique pages may be
// reported as duplicates; false negatives are not.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected pages
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Hash returns the xxhash of content as a hex string.
func Hash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// Seen records content and reports whether content with the same hash
// may have been recorded before.
func (f *Filter) Seen(content string) bool {
	return f.f.TestAndAddString(Hash(content))
}

// Test reports whether content may have been recorded, without recording it.
func (f *Filter) Test(content string) bool {
	return f.f.TestString(Hash(content))
}

// EstimatedCount returns the approximate number of distinct contents recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
