// Package readability selects the article content of a page with
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/sitevec"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sitevec.Extractor at compile time.
var _ sitevec.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable article of rawHTML. Blank documents produce
// an empty result.
func (e *Extractor) Extract(rawHTML string) (*sitevec.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &sitevec.ExtractResult{}, nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to extract article: %v", err)
	}

	return &sitevec.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
