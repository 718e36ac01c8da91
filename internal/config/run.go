// Package config holds the settings of a single mdimages run.
package config

import (
	"time"

	derrors "git.home.luguber.info/inful/mdimages/internal/errors"
	"git.home.luguber.info/inful/mdimages/internal/version"
)

// Run is the validated configuration of one invocation. It is built from
// command-line flags; the tool reads no config file and no environment.
type Run struct {
	// Document is the path of the input document.
	Document string
	// ResourceFolder receives downloaded images and becomes the new link base.
	ResourceFolder string

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration
	// UserAgent is sent with every image request.
	UserAgent string

	// MetricsFile, when set, receives run metrics in the Prometheus text format.
	MetricsFile string
	// ReportFile, when set, receives a YAML summary of the run.
	ReportFile string
}

// ApplyDefaults fills optional fields left empty.
func (r *Run) ApplyDefaults() {
	if r.UserAgent == "" {
		r.UserAgent = version.UserAgent()
	}
}

// Validate checks required fields. Filesystem checks happen at run time.
func (r *Run) Validate() error {
	if r.Document == "" {
		return derrors.ValidationFailed("file", "input document path is required")
	}
	if r.ResourceFolder == "" {
		return derrors.ValidationFailed("resource_folder", "resource folder path is required")
	}
	if r.Timeout < 0 {
		return derrors.ValidationFailed("timeout", "must not be negative")
	}
	if r.MetricsFile != "" && r.MetricsFile == r.ReportFile {
		return derrors.ValidationFailed("report", "report and metrics file must differ")
	}
	return nil
}
