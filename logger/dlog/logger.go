package dlog

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Log is the logger used by the whole module. It defaults to a text handler
// on stderr; call Setup to fan out to more handlers.
var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Setup replaces Log with a logger that fans out to every given handler.
func Setup(handlers ...slog.Handler) {
	Log = slog.New(slogmulti.Fanout(handlers...))
}

// JSONHandler returns a JSON handler writing to w, for use with Setup.
func JSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

// TextHandler returns a text handler writing to w, for use with Setup.
func TextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewTextHandler(w, opts)
}
