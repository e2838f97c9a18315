package sitevec

// Converter turns extracted HTML into the text that gets staged.
type Converter interface {
	// Convert transforms HTML content into its staged representation
	// (plain text or Markdown, depending on the implementation).
	Convert(html string) (string, error)

	// Ext returns the file suffix used for staged files, including the dot.
	Ext() string
}
