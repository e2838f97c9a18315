package crawl

import "github.com/fwojciec/sitevec"

// DefaultBatchLimit is the number of staged files uploaded together.
const DefaultBatchLimit = 500

// Batch accumulates staged files between flushes.
type Batch struct {
	limit int
	files []*sitevec.StagedFile
}

// NewBatch creates a Batch holding at most limit files.
// A non-positive limit selects DefaultBatchLimit.
func NewBatch(limit int) *Batch {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &Batch{limit: limit, files: make([]*sitevec.StagedFile, 0, min(limit, 64))}
}

// Add appends a staged file and reports whether the batch reached its limit.
// Callers must flush a full batch before adding to it again.
func (b *Batch) Add(file *sitevec.StagedFile) bool {
	b.files = append(b.files, file)
	return b.Full()
}

// Full reports whether the batch reached its limit.
func (b *Batch) Full() bool { return len(b.files) >= b.limit }

// Len returns the number of files in the batch.
func (b *Batch) Len() int { return len(b.files) }

// Limit returns the batch limit.
func (b *Batch) Limit() int { return b.limit }

// Files returns the staged files in insertion order.
func (b *Batch) Files() []*sitevec.StagedFile { return b.files }

// Paths returns the paths of the staged files in insertion order.
func (b *Batch) Paths() []string {
	paths := make([]string, len(b.files))
	for i, f := range b.files {
		paths[i] = f.Path
	}
	return paths
}

// Reset empties the batch.
func (b *Batch) Reset() {
	clear(b.files)
	b.files = b.files[:0]
}
