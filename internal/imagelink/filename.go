package imagelink

import (
	"errors"
	"regexp"
)

// ErrUnsupportedURL is returned when a URL does not end in a filename with
// a supported image extension.
var ErrUnsupportedURL = errors.New("unsupported url")

// fileNamePattern is anchored to the end of the URL. Unlike referencePattern
// it accepts hyphens in the filename body.
var fileNamePattern = regexp.MustCompile(`(?P<file_name>[A-Za-z_0-9\-]+.(png|gif|svg)$)`)

// FileNameFromURL extracts the trailing filename used to store a download.
func FileNameFromURL(rawURL string) (string, error) {
	m := fileNamePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrUnsupportedURL
	}
	return m[fileNamePattern.SubexpIndex("file_name")], nil
}
