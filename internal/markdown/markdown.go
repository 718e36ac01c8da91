package markdown

import (
	"bytes"
	"errors"
	"io"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseBody parses a Markdown body into a Goldmark AST.
func ParseBody(body []byte, _ Options) gmast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(body))
}

// ExtractImages parses a Markdown body and returns every image reference a
// CommonMark reader would render, in document order.
//
// Images inside code spans and fenced blocks are not reported. Inline and
// block HTML is tokenized and <img src> values are reported as
// ImageSourceHTML unless opts.SkipHTML is set.
func ExtractImages(body []byte, opts Options) ([]Image, error) {
	root := ParseBody(body, opts)

	images := make([]Image, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Image:
			images = append(images, Image{Source: ImageSourceMarkdown, Destination: string(node.Destination)})
		case *gmast.RawHTML:
			if opts.SkipHTML {
				return gmast.WalkContinue, nil
			}
			var raw bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
			srcs, err := imgSources(raw.Bytes())
			if err != nil {
				return gmast.WalkStop, err
			}
			images = appendHTMLImages(images, srcs)
		case *gmast.HTMLBlock:
			if opts.SkipHTML {
				return gmast.WalkContinue, nil
			}
			var raw bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				raw.Write(seg.Value(body))
			}
			if node.HasClosure() {
				raw.Write(node.ClosureLine.Value(body))
			}
			srcs, err := imgSources(raw.Bytes())
			if err != nil {
				return gmast.WalkStop, err
			}
			images = appendHTMLImages(images, srcs)
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return images, nil
}

func appendHTMLImages(images []Image, srcs []string) []Image {
	for _, src := range srcs {
		images = append(images, Image{Source: ImageSourceHTML, Destination: src})
	}
	return images
}

// imgSources returns the src attribute of every <img> tag in an HTML fragment.
func imgSources(fragment []byte) ([]string, error) {
	var srcs []string
	z := html.NewTokenizer(bytes.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return srcs, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key == "src" && attr.Val != "" {
					srcs = append(srcs, attr.Val)
				}
			}
		}
	}
}
