package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTaskID     = "task_id"
	KeyJobID      = "job_id"
	KeyStage      = "stage"
	KeyAttempt    = "attempt"
	KeyRepo       = "repository"
	KeyURL        = "url"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func TaskID(id string) slog.Attr      { return slog.String(KeyTaskID, id) }
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
