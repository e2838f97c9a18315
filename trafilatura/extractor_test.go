package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/sitevec/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Getting Started - My Docs</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a> Navigation menu items</nav>
<article>
<h1>Getting Started</h1>
<p>This is important documentation content that should be extracted for the vector store.</p>
<p>It spans several sentences so the extractor recognizes it as the main body of the page.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<footer>Copyright 2024 Example Corp. All rights reserved.</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("keeps the main content", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "important documentation content")
		assert.Contains(t, result.ContentHTML, "func main()")
	})

	t.Run("drops boilerplate", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(articlePage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "<nav")
		assert.NotContains(t, result.ContentHTML, "<footer")
	})

	t.Run("returns an empty result for blank input", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract("   ")

		require.NoError(t, err)
		assert.Empty(t, result.ContentHTML)
	})
}
