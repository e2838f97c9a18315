// Package htmltomarkdown stages pages as Markdown using html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/sitevec"
)

// Ensure Converter implements sitevec.Converter at compile time.
var _ sitevec.Converter = (*Converter)(nil)

// Converter renders extracted HTML as Markdown. Markdown keeps headings,
// code blocks and tables, which chunk better in a vector store than flat text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Ext returns the suffix of Markdown staged files.
func (c *Converter) Ext() string { return ".md" }

// Convert transforms HTML content into Markdown. Blank input converts to
// an empty document so the page is skipped rather than failed.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", sitevec.Errorf(sitevec.EINVALID, "failed to convert HTML: %v", err)
	}
	return strings.TrimSpace(md), nil
}
