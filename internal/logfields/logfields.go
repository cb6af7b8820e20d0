package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyFile       = "file"
	KeyTheme      = "theme"
	KeyPermalink  = "permalink"
	KeyPages      = "pages"
	KeySkipped    = "skipped"
	KeyFailures   = "failures"
	KeyDurationMS = "duration_ms"
	KeyPolicy     = "policy"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Theme(name string) slog.Attr     { return slog.String(KeyTheme, name) }
func Permalink(url string) slog.Attr  { return slog.String(KeyPermalink, url) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Skipped(n int) slog.Attr         { return slog.Int(KeySkipped, n) }
func Failures(n int) slog.Attr        { return slog.Int(KeyFailures, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Policy(p string) slog.Attr       { return slog.String(KeyPolicy, p) }
func Event(op string) slog.Attr       { return slog.String(KeyEvent, op) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
