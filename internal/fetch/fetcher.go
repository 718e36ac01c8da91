// Package fetch downloads remote images into the resource folder.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
	"git.home.luguber.info/inful/mdimages/internal/imagelink"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
)

// Result describes one completed download.
type Result struct {
	URL      string        `yaml:"url"`
	Path     string        `yaml:"path"`
	Bytes    int64         `yaml:"bytes"`
	Status   int           `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
}

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds a whole request including the body. Zero disables it.
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
}

// Fetcher performs HTTP GETs and streams the bodies to disk.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a Fetcher with a proxy-aware transport.
func New(opts Options) *Fetcher {
	// Respects HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent: opts.UserAgent,
	}
}

// NewWithClient creates a Fetcher around an existing client.
func NewWithClient(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{httpClient: client, userAgent: userAgent}
}

// Fetch downloads rawURL into dir, naming the file after the URL's trailing
// filename. An existing file with the same name is overwritten. dir must
// already exist.
//
// A URL without a supported filename fails before any request is sent.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (*Result, error) {
	name, err := imagelink.FileNameFromURL(rawURL)
	if err != nil {
		return nil, derrors.UnsupportedURL(rawURL, err)
	}
	dest := filepath.Join(dir, name)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, derrors.FetchFailed(rawURL, fmt.Errorf("failed to create request: %w", err))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, derrors.FetchFailed(rawURL, fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return nil, derrors.FetchFailed(rawURL, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)).
			WithContext("status", resp.StatusCode)
	}

	n, err := writeFile(rawURL, dest, resp.Body)
	if err != nil {
		return nil, err
	}

	res := &Result{
		URL:      rawURL,
		Path:     dest,
		Bytes:    n,
		Status:   resp.StatusCode,
		Duration: time.Since(start),
	}
	slog.Debug("Image fetched",
		logfields.URL(rawURL),
		logfields.Path(dest),
		logfields.Bytes(n),
		logfields.Status(resp.StatusCode),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

// writeFile streams body into path. A partially written file is left in
// place when the copy fails.
func writeFile(rawURL, path string, body io.Reader) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, derrors.WriteFailed(path, err)
	}

	n, copyErr := io.Copy(file, body)
	closeErr := file.Close()
	if copyErr != nil {
		// A failed read of the body is a transport error, not a disk error.
		var pathErr *os.PathError
		if errors.As(copyErr, &pathErr) {
			return n, derrors.WriteFailed(path, copyErr)
		}
		return n, derrors.FetchFailed(rawURL, fmt.Errorf("read body: %w", copyErr)).WithContext("path", path)
	}
	if closeErr != nil {
		return n, derrors.WriteFailed(path, closeErr)
	}
	return n, nil
}
