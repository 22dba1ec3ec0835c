package trellis

import "log/slog"

// pkgLogger is nil until SetLogger is called; logger then follows
// slog.Default so a later slog.SetDefault is picked up.
var pkgLogger *slog.Logger

// SetLogger replaces the logger used for warnings and debug output.
// A nil logger restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		pkgLogger = nil
		return
	}
	pkgLogger = l.With("component", "trellis")
}

func logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default().With("component", "trellis")
}
