package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyTarget     = "target"
	KeyDocument   = "document"
	KeyFragment   = "fragment"
	KeySource     = "source"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyMessageID  = "message_id"
	KeyTransport  = "transport"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Target(t string) slog.Attr        { return slog.String(KeyTarget, t) }
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Fragment(name string) slog.Attr   { return slog.String(KeyFragment, name) }
func Source(s string) slog.Attr        { return slog.String(KeySource, s) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func MessageID(id string) slog.Attr    { return slog.String(KeyMessageID, id) }
func Transport(t string) slog.Attr     { return slog.String(KeyTransport, t) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr        { return slog.String(KeyBranch, b) }
func Commit(c string) slog.Attr        { return slog.String(KeyCommit, c) }

// Elapsed reports d under the duration_ms key.
func Elapsed(d time.Duration) slog.Attr { return DurationMS(float64(d.Microseconds()) / 1000) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
