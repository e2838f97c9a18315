package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitevec"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ sitevec.Converter = (*TextConverter)(nil)

// Line breaks in source text are layout, not content, except inside <pre>.
var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// preMark starts every line of preformatted text. The HTML parser replaces
// NUL in text with U+FFFD, so the mark cannot come from the page.
const preMark = "\x00"

var preNewlines = strings.NewReplacer("\r\n", "\n"+preMark, "\n", "\n"+preMark, "\r", "\n"+preMark)

// TextConverter renders HTML as plain text, one line per block element.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Ext returns the suffix of plain-text staged files.
func (c *TextConverter) Ext() string { return ".txt" }

// Convert strips markup from html. Whitespace inside a line is collapsed
// and blank lines are dropped. Lines of <pre> blocks keep their breaks and
// indentation.
func (c *TextConverter) Convert(h string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(h))
	if err != nil {
		return "", sitevec.Errorf(sitevec.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(nonContent).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n, false)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.HasPrefix(line, preMark) {
			line = strings.TrimRight(strings.ReplaceAll(line, preMark, ""), " \t")
			if strings.TrimSpace(line) == "" {
				continue
			}
		} else {
			line = strings.Join(strings.Fields(line), " ")
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(preMark + preNewlines.Replace(n.Data))
		} else {
			b.WriteString(newlines.Replace(n.Data))
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && isBlock(n.DataAtom)
	pre = pre || n.DataAtom == atom.Pre
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, pre)
	}
	if block {
		b.WriteByte('\n')
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Br,
		atom.Dd, atom.Div, atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption,
		atom.Figure, atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3,
		atom.H4, atom.H5, atom.H6, atom.Header, atom.Hr, atom.Li, atom.Main,
		atom.Nav, atom.Ol, atom.P, atom.Pre, atom.Section, atom.Table,
		atom.Td, atom.Th, atom.Tr, atom.Ul, atom.Title, atom.Body:
		return true
	}
	return false
}
