package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDocument   = "document"
	KeyFolder     = "resource_folder"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyLocation   = "location"
	KeySource     = "source"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Document(p string) slog.Attr     { return slog.String(KeyDocument, p) }
func Folder(p string) slog.Attr       { return slog.String(KeyFolder, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Location(l string) slog.Attr     { return slog.String(KeyLocation, l) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
