package goquery_test

import (
	"testing"

	"github.com/fwojciec/sitevec/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns the body without scripts and styles", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title> Welcome </title><style>body{}</style></head>
<body>
<h1>Hello</h1>
<script>var x = 1;</script>
<noscript>Enable JavaScript</noscript>
<p>World</p>
</body>
</html>`

		result, err := goquery.NewBodyExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Welcome", result.Title)
		assert.Contains(t, result.ContentHTML, "<h1>Hello</h1>")
		assert.Contains(t, result.ContentHTML, "<p>World</p>")
		assert.NotContains(t, result.ContentHTML, "var x")
		assert.NotContains(t, result.ContentHTML, "Enable JavaScript")
		assert.NotContains(t, result.ContentHTML, "body{}")
	})

	t.Run("wraps fragments in an implied body", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewBodyExtractor().Extract("<p>Just text</p>")

		require.NoError(t, err)
		assert.Equal(t, "<p>Just text</p>", result.ContentHTML)
	})
}

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns every href in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav><a href="/about">About</a></nav>
<main>
	<a href="https://other.com/x">Other</a>
	<a href="/about#team">Team</a>
	<a href="/about">About again</a>
	<a>No href</a>
	<a href="  ">Blank</a>
</main>
</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"/about",
			"https://other.com/x",
			"/about#team",
			"/about",
		}, links)
	})

	t.Run("keeps malformed hrefs for the caller to skip", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().ExtractLinks(`<a href="http://[::1">bad</a><a href="javascript:void(0)">js</a>`)

		require.NoError(t, err)
		assert.Equal(t, []string{"http://[::1", "javascript:void(0)"}, links)
	})

	t.Run("returns nothing for a page without anchors", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor().ExtractLinks("<p>No links</p>")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
