package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-data")

func newImageServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		switch r.URL.Path {
		case "/img/logo.png", "/img/logo-dark.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngBytes)
		case "/ua/check.gif":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_WritesFileNamedAfterURL(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := t.TempDir()

	f := NewWithClient(srv.Client(), "")
	res, err := f.Fetch(context.Background(), srv.URL+"/img/logo.png", dir)
	require.NoError(t, err)

	want := filepath.Join(dir, "logo.png")
	require.Equal(t, want, res.Path)
	require.Equal(t, int64(len(pngBytes)), res.Bytes)
	require.Equal(t, http.StatusOK, res.Status)

	got, err := os.ReadFile(want)
	require.NoError(t, err)
	require.Equal(t, pngBytes, got)
}

func TestFetcher_HyphenatedFileName(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := t.TempDir()

	res, err := NewWithClient(srv.Client(), "").Fetch(context.Background(), srv.URL+"/img/logo-dark.png", dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "logo-dark.png"), res.Path)
}

func TestFetcher_SendsUserAgent(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := t.TempDir()

	_, err := NewWithClient(srv.Client(), "mdimages/test").Fetch(context.Background(), srv.URL+"/ua/check.gif", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "check.gif"))
	require.NoError(t, err)
	require.Equal(t, "mdimages/test", string(got))
}

func TestFetcher_OverwritesExistingFile(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := t.TempDir()
	dest := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(dest, []byte("stale content that is longer than the image"), 0o600))

	_, err := NewWithClient(srv.Client(), "").Fetch(context.Background(), srv.URL+"/img/logo.png", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, pngBytes, got)
}

func TestFetcher_UnsupportedURLFailsWithoutRequest(t *testing.T) {
	var calls atomic.Int64
	srv := newImageServer(t, &calls)
	dir := t.TempDir()

	_, err := NewWithClient(srv.Client(), "").Fetch(context.Background(), srv.URL+"/img/photo.jpg", dir)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryParse))
	require.Zero(t, calls.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFetcher_HTTPErrorStatus(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := t.TempDir()

	_, err := NewWithClient(srv.Client(), "").Fetch(context.Background(), srv.URL+"/missing/gone.png", dir)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))

	re, ok := derrors.As(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, re.Context["status"])

	_, statErr := os.Stat(filepath.Join(dir, "gone.png"))
	require.True(t, os.IsNotExist(statErr))
}

func TestFetcher_MissingDirectory(t *testing.T) {
	srv := newImageServer(t, nil)
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := NewWithClient(srv.Client(), "").Fetch(context.Background(), srv.URL+"/img/logo.png", dir)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryFileSystem))
}

func TestFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/img/logo.png"
	srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), url, t.TempDir())
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	f := New(Options{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL+"/slow/pic.svg", t.TempDir())
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))
}

func TestFetcher_CanceledContext(t *testing.T) {
	srv := newImageServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWithClient(srv.Client(), "").Fetch(ctx, srv.URL+"/img/logo.png", t.TempDir())
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}
