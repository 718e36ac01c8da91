// Package localize runs one pass over a document: find image references,
// download the remote ones, and print the document with every reference
// pointing at the resource folder.
package localize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdimages/internal/config"
	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
	"git.home.luguber.info/inful/mdimages/internal/fetch"
	"git.home.luguber.info/inful/mdimages/internal/imagelink"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/markdown"
	"git.home.luguber.info/inful/mdimages/internal/metrics"
	"git.home.luguber.info/inful/mdimages/internal/report"
)

var errInvalidUTF8 = errors.New("document is not valid UTF-8")

// ImageFetcher downloads one remote image into a directory.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL, dir string) (*fetch.Result, error)
}

// Runner executes a single run. It is not safe for concurrent use.
type Runner struct {
	cfg      *config.Run
	fetcher  ImageFetcher
	recorder metrics.Recorder
	trace    io.Writer
	out      io.Writer
	logger   *slog.Logger
	runID    string
}

// Option customises a Runner.
type Option func(*Runner)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f ImageFetcher) Option { return func(r *Runner) { r.fetcher = f } }

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option { return func(r *Runner) { r.recorder = rec } }

// WithTrace sets where discovered locations are printed.
func WithTrace(w io.Writer) Option { return func(r *Runner) { r.trace = w } }

// WithOutput sets where the rewritten document is printed.
func WithOutput(w io.Writer) Option { return func(r *Runner) { r.out = w } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithRunID fixes the run identifier.
func WithRunID(id string) Option { return func(r *Runner) { r.runID = id } }

// NewRunner builds a Runner for cfg. Location trace and output default to stdout.
func NewRunner(cfg *config.Run, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		trace:    os.Stdout,
		out:      os.Stdout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetcher == nil {
		r.fetcher = fetch.New(fetch.Options{Timeout: cfg.Timeout, UserAgent: cfg.UserAgent})
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.logger = r.logger.With(logfields.RunID(r.runID))
	return r
}

// Run processes the document. The returned report is never nil and
// describes how far the run got, including on failure.
//
// The first error stops the run: files downloaded before it stay on disk
// and nothing is printed to the output writer.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	started := time.Now()
	rep := &report.Report{
		RunID:          r.runID,
		Document:       r.cfg.Document,
		ResourceFolder: r.cfg.ResourceFolder,
		StartedAt:      started,
		Links:          []report.Link{},
		Fetched:        []fetch.Result{},
	}

	err := r.run(ctx, rep)

	rep.FinishedAt = time.Now()
	r.recorder.ObserveRunDuration(rep.FinishedAt.Sub(started))
	outcome := outcomeOf(ctx, err)
	rep.Outcome = string(outcome)
	r.recorder.IncRunOutcome(outcome)
	if err != nil {
		rep.Error = err.Error()
		return rep, err
	}

	r.logger.Info("Run completed",
		logfields.Count(len(rep.Fetched)),
		logfields.DurationMS(float64(rep.FinishedAt.Sub(started).Microseconds())/1000))
	return rep, nil
}

func (r *Runner) run(ctx context.Context, rep *report.Report) error {
	text, err := readDocument(r.cfg.Document)
	if err != nil {
		return err
	}

	links := imagelink.Find(text)
	for _, l := range links {
		if _, err := fmt.Fprintln(r.trace, l.Location); err != nil {
			return derrors.InternalError("write location trace", err)
		}
		rep.Links = append(rep.Links, report.Link{Location: l.Location, Local: l.IsLocal})
		if l.IsLocal {
			r.recorder.IncLinksFound(metrics.LinkLocal)
		} else {
			r.recorder.IncLinksFound(metrics.LinkRemote)
		}
	}
	r.logger.Debug("Image references found", logfields.Document(r.cfg.Document), logfields.Count(len(links)))

	rep.Unmatched = r.reportUnmatched(text, links)

	if err := checkFolder(r.cfg.ResourceFolder); err != nil {
		return err
	}

	for _, l := range links {
		if l.IsLocal {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		res, err := r.fetcher.Fetch(ctx, l.Location, r.cfg.ResourceFolder)
		if err != nil {
			r.recorder.ObserveFetch(time.Since(start), 0, metrics.ResultFailed)
			return err
		}
		r.recorder.ObserveFetch(res.Duration, res.Bytes, metrics.ResultSuccess)
		rep.Fetched = append(rep.Fetched, *res)
		r.logger.Info("Image downloaded", logfields.URL(res.URL), logfields.Path(res.Path), logfields.Bytes(res.Bytes))
	}

	rewritten, err := imagelink.Rewrite(text, r.cfg.ResourceFolder)
	if err != nil {
		return derrors.InternalError("rewrite document", err)
	}
	if _, err := io.WriteString(r.out, rewritten); err != nil {
		return derrors.InternalError("write output", err)
	}
	return nil
}

// reportUnmatched logs images a CommonMark parser sees that the reference
// pattern leaves alone. It never fails the run.
func (r *Runner) reportUnmatched(text string, links []imagelink.Link) []report.Unmatched {
	images, err := markdown.ExtractImages([]byte(text), markdown.Options{})
	if err != nil {
		r.logger.Debug("Image diagnostics skipped", logfields.Error(err))
		return nil
	}

	matched := make(map[string]int, len(links))
	for _, l := range links {
		matched[l.Location]++
	}

	var unmatched []report.Unmatched
	for _, img := range images {
		if img.Source == markdown.ImageSourceMarkdown && matched[img.Destination] > 0 {
			matched[img.Destination]--
			continue
		}
		unmatched = append(unmatched, report.Unmatched{Source: string(img.Source), Destination: img.Destination})
		r.recorder.IncUnmatchedImages(string(img.Source))
		r.logger.Warn("Image reference left unchanged",
			logfields.Location(img.Destination),
			logfields.Source(string(img.Source)))
	}
	return unmatched
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", derrors.InputNotFound(path, err)
		}
		return "", derrors.InputUnreadable(path, err)
	}
	if !utf8.Valid(data) {
		return "", derrors.InputUnreadable(path, errInvalidUTF8)
	}
	return string(data), nil
}

func checkFolder(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return derrors.ResourceFolderMissing(path, err)
	}
	if !info.IsDir() {
		return derrors.ResourceFolderNotDir(path)
	}
	return nil
}

func outcomeOf(ctx context.Context, err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case ctx.Err() != nil:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}
