// Package trafilatura selects the main content of a page with
// go-trafilatura, dropping navigation and other boilerplate.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sitevec"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitevec.Extractor at compile time.
var _ sitevec.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with fallback extraction enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the main content of rawHTML. Blank documents produce an
// empty result.
func (e *Extractor) Extract(rawHTML string) (*sitevec.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &sitevec.ExtractResult{}, nil
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to extract content: %v", err)
	}

	var content string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		content = buf.String()
	}

	return &sitevec.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: content,
	}, nil
}
