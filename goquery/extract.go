// Package goquery implements HTML parsing on top of goquery: body content
// extraction, anchor discovery and plain-text conversion.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitevec"
)

// Compile-time interface verification.
var (
	_ sitevec.Extractor     = (*BodyExtractor)(nil)
	_ sitevec.LinkExtractor = (*LinkExtractor)(nil)
)

// nonContent matches elements whose text is never part of the rendered page.
const nonContent = "script, style, noscript, template"

// BodyExtractor selects the whole document body as content.
type BodyExtractor struct{}

// NewBodyExtractor creates a new BodyExtractor.
func NewBodyExtractor() *BodyExtractor {
	return &BodyExtractor{}
}

// Extract returns the body of the document with scripts and styles removed.
// Documents without a body element yield empty content.
func (e *BodyExtractor) Extract(html string) (*sitevec.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to parse HTML: %v", err)
	}

	body := doc.Find("body").First()
	body.Find(nonContent).Remove()

	content, err := body.Html()
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINTERNAL, "failed to render body: %v", err)
	}

	return &sitevec.ExtractResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: content,
	}, nil
}

// LinkExtractor returns the href of every anchor in a document.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns raw href values in document order, duplicates
// included. Empty hrefs are skipped.
func (e *LinkExtractor) ExtractLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "failed to parse HTML: %v", err)
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href = strings.TrimSpace(href); href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}
