package sitevec

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, if one could be determined.
	Title string

	// ContentHTML is the HTML whose text is staged for ingestion.
	ContentHTML string
}

// Extractor selects the content of an HTML page worth ingesting.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor returns the raw href value of every anchor in a page.
// Values are returned unresolved and in document order; resolution
// against the page URL and scope filtering are left to the caller.
type LinkExtractor interface {
	ExtractLinks(html string) ([]string, error)
}
