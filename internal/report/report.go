// Package report writes a YAML summary of a run.
package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdimages/internal/fetch"
)

// Link is the report view of a discovered image reference.
type Link struct {
	Location string `yaml:"location"`
	Local    bool   `yaml:"local"`
}

// Unmatched is an image reference the pattern did not rewrite.
type Unmatched struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// Report summarises one run.
type Report struct {
	RunID          string         `yaml:"run_id"`
	Document       string         `yaml:"document"`
	ResourceFolder string         `yaml:"resource_folder"`
	StartedAt      time.Time      `yaml:"started_at"`
	FinishedAt     time.Time      `yaml:"finished_at"`
	Outcome        string         `yaml:"outcome"`
	Error          string         `yaml:"error,omitempty"`
	Links          []Link         `yaml:"links"`
	Fetched        []fetch.Result `yaml:"fetched"`
	Unmatched      []Unmatched    `yaml:"unmatched,omitempty"`
}

// Write encodes r as YAML into path.
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Read decodes a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
