package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyFormat     = "format"
	KeyRenderID   = "render_id"
	KeyDurationMS = "duration_ms"
	KeyBytes      = "bytes"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyAddr       = "addr"
	KeyOperation  = "operation"
	KeyDepth      = "depth"
	KeyEvent      = "event"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func RenderID(id string) slog.Attr    { return slog.String(KeyRenderID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Depth(d int) slog.Attr           { return slog.Int(KeyDepth, d) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }

// Since reports the elapsed time from start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
