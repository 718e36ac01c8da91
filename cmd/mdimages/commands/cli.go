package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdimages/internal/config"
	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
	"git.home.luguber.info/inful/mdimages/internal/localize"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/metrics"
	"git.home.luguber.info/inful/mdimages/internal/report"
	"github.com/alecthomas/kong"
)

// CLI is the single command exposed by mdimages.
type CLI struct {
	File           string           `short:"f" name:"file" required:"" help:"Path of the document to process"`
	ResourceFolder string           `short:"r" name:"resource_folder" required:"" help:"Existing folder that receives downloaded images and becomes the new image path"`
	Timeout        time.Duration    `help:"Per-request timeout for image downloads (0 disables)" default:"0s"`
	UserAgent      string           `name:"user-agent" help:"User-Agent header for image downloads"`
	MetricsFile    string           `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file"`
	Report         string           `help:"Write a YAML run report to this file"`
	Verbose        bool             `short:"v" help:"Enable verbose logging"`
	Version        kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// Logs go to stderr because stdout carries the document.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// Config converts the parsed flags into a validated run configuration.
func (c *CLI) Config() (*config.Run, error) {
	cfg := &config.Run{
		Document:       c.File,
		ResourceFolder: c.ResourceFolder,
		Timeout:        c.Timeout,
		UserAgent:      c.UserAgent,
		MetricsFile:    c.MetricsFile,
		ReportFile:     c.Report,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Run executes one pass over the document.
func (c *CLI) Run(ctx context.Context, opts ...localize.Option) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}

	var recorder *metrics.PrometheusRecorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(prom.NewRegistry())
		opts = append(opts, localize.WithRecorder(recorder))
	}

	slog.Debug("Starting run",
		logfields.Document(cfg.Document),
		logfields.Folder(cfg.ResourceFolder))

	rep, runErr := localize.NewRunner(cfg, opts...).Run(ctx)

	// Artifacts are written whatever the outcome; failing to write them
	// never changes the exit code.
	adapter := derrors.NewCLIErrorAdapter(c.Verbose, nil)
	if cfg.ReportFile != "" {
		if err := report.Write(cfg.ReportFile, rep); err != nil {
			adapter.Log(derrors.ArtifactWriteFailed(cfg.ReportFile, err))
		}
	}
	if recorder != nil {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			adapter.Log(derrors.ArtifactWriteFailed(cfg.MetricsFile, err))
		}
	}

	return runErr
}
