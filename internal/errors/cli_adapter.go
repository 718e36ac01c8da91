package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing messages to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects user-facing messages.
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if re, ok := As(err); ok {
		return a.exitCodeFromRunError(re)
	}

	return 1
}

// exitCodeFromRunError maps RunError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromRunError(err *RunError) int {
	switch err.Category {
	case CategoryInput, CategoryValidation:
		return 2 // Invalid usage
	case CategoryNetwork:
		return 8 // External system error
	case CategoryParse:
		return 9 // Unsupported reference
	case CategoryInternal:
		return 10 // Internal error
	case CategoryFileSystem:
		return 11 // Write error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if re, ok := As(err); ok {
		return a.formatRunError(re)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatRunError(err *RunError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryInput, CategoryValidation:
		if path, ok := err.Context["path"]; ok {
			return fmt.Sprintf("%s: %v", err.Message, path)
		}
		return err.Message
	default:
		if err.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", err.Category, err.Message, err.Cause)
		}
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// Report logs and prints err and returns the exit code the process should use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(a.out, "%s\n", a.FormatError(err))
	return a.ExitCodeFor(err)
}

// Log records err without printing it or choosing an exit code. It is used
// for failures that do not change the outcome of the run.
func (a *CLIErrorAdapter) Log(err error) {
	if err == nil {
		return
	}
	a.logError(err)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if re, ok := As(err); ok {
		return re.Category == CategoryInternal || re.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if re, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(re.Category)),
		}
		for k, v := range re.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if re.Cause != nil {
			attrs = append(attrs, slog.String("error", re.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), slogLevel(re.Severity), re.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevel converts RunError severity to slog level.
func slogLevel(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
