package mock

import "github.com/fwojciec/sitevec"

var _ sitevec.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitevec.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*sitevec.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*sitevec.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ sitevec.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitevec.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	return e.ExtractLinksFn(html)
}
