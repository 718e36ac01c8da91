// Package imagelink finds markdown image references in a document and
// rewrites their directory portion to a new base path.
package imagelink

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdimages/internal/markdown"
)

// remotePrefix is the literal prefix that marks a location as remote.
// Anything else, including ftp:// or absolute filesystem paths, is local.
const remotePrefix = "http"

// referencePattern matches `![format](directory/filename.ext)`.
//
// The bracket content is lowercase-only and the filename body excludes
// hyphens. Both restrictions are kept as-is; changing them changes which
// references get rewritten.
var referencePattern = regexp.MustCompile(
	`(?P<format>!\[[a-z]*\])\((?P<link>[a-za-z:/\-\._0-9]*/(?P<file_name>[A-Za-z_0-9]+.(png|gif|svg)))\)`,
)

var (
	formatGroup   = referencePattern.SubexpIndex("format")
	linkGroup     = referencePattern.SubexpIndex("link")
	fileNameGroup = referencePattern.SubexpIndex("file_name")
)

// Link is a single matched image reference.
type Link struct {
	// Location is the path or URL captured between the parentheses.
	Location string
	// IsLocal is true unless Location starts with "http".
	IsLocal bool

	// Format is the literal bracket prefix, e.g. "![]".
	Format string
	// FileName is the trailing filename portion of Location.
	FileName string
	// Start and End are the byte offsets of the whole match, End exclusive.
	Start int
	End   int
}

// IsRemote reports whether the link has to be fetched.
func (l Link) IsRemote() bool { return !l.IsLocal }

// Find returns one Link per non-overlapping match in text, left to right.
// A document without matches yields an empty, non-nil slice.
func Find(text string) []Link {
	matches := referencePattern.FindAllStringSubmatchIndex(text, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		location := group(text, m, linkGroup)
		links = append(links, Link{
			Location: location,
			IsLocal:  !strings.HasPrefix(location, remotePrefix),
			Format:   group(text, m, formatGroup),
			FileName: group(text, m, fileNameGroup),
			Start:    m[0],
			End:      m[1],
		})
	}
	return links
}

// Rewrite replaces every match in text with `<format>(<dir><filename>)`.
//
// dir is concatenated verbatim, so callers that want a separator must
// include it. Local links are rewritten as well as remote ones.
func Rewrite(text, dir string) (string, error) {
	links := Find(text)
	if len(links) == 0 {
		return text, nil
	}

	edits := make([]markdown.Edit, 0, len(links))
	for _, l := range links {
		edits = append(edits, markdown.Edit{
			Start:       l.Start,
			End:         l.End,
			Replacement: []byte(l.Format + "(" + dir + l.FileName + ")"),
		})
	}

	out, err := markdown.ApplyEdits([]byte(text), edits)
	if err != nil {
		return "", fmt.Errorf("rewrite image links: %w", err)
	}
	return string(out), nil
}

func group(text string, m []int, idx int) string {
	if m[2*idx] < 0 {
		return ""
	}
	return text[m[2*idx]:m[2*idx+1]]
}
