package sitevec

import (
	"context"
	"io"
)

// StagedFile is the extracted text of one page written to the transient
// staging directory, waiting to be uploaded.
type StagedFile struct {
	URL   string
	Name  string // file name inside the staging directory
	Path  string
	Bytes int
	Hash  string
}

// StagingStore owns the transient directory of a single crawl.
type StagingStore interface {
	// Create creates the transient directory. It must be called once
	// before Stage.
	Create() error

	// Dir returns the transient directory path.
	// Returns an empty string before Create.
	Dir() string

	// Stage writes the content extracted from url to a new staged file.
	Stage(ctx context.Context, url, content string) (*StagedFile, error)

	// Open opens a staged file for reading.
	Open(file *StagedFile) (io.ReadCloser, error)

	// Delete removes a staged file from the transient directory.
	Delete(file *StagedFile) error

	// Remove removes the transient directory.
	Remove() error
}
