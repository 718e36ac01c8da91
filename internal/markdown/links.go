package markdown

// Options controls how Markdown is parsed for image analysis.
type Options struct {
	// SkipHTML disables scanning raw HTML for <img> tags.
	SkipHTML bool
}

// ImageSource says where in the document an image reference was found.
type ImageSource string

const (
	ImageSourceMarkdown ImageSource = "markdown"
	ImageSourceHTML     ImageSource = "html"
)

// Image is an image reference as seen by a CommonMark parser.
type Image struct {
	Source      ImageSource
	Destination string
}
