package dlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type color int

const (
	reset = "\033[0m"

	lightGray   color = 37
	cyan        color = 36
	lightYellow color = 93
	lightRed    color = 91
	white       color = 97

	prettyTimeFormat = "[2006-01-02 15:04:05.000]"
)

func colorize(code color, v string) string {
	return fmt.Sprintf("\033[%dm%s%s", code, v, reset)
}

// PrettyHandler renders records as one colored line followed by the attrs as
// indented JSON, for development terminals. Use TextHandler or JSONHandler
// for anything a machine reads.
type PrettyHandler struct {
	inner slog.Handler
	buf   *bytes.Buffer
	mu    *sync.Mutex
	out   io.Writer
}

// NewPrettyHandler returns a pretty handler writing to out, for use with
// Setup.
func NewPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	buf := &bytes.Buffer{}
	return &PrettyHandler{
		inner: slog.NewJSONHandler(buf, opts),
		buf:   buf,
		mu:    &sync.Mutex{},
		out:   out,
	}
}

func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{inner: h.inner.WithAttrs(attrs), buf: h.buf, mu: h.mu, out: h.out}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{inner: h.inner.WithGroup(name), buf: h.buf, mu: h.mu, out: h.out}
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}
	delete(attrs, slog.TimeKey)
	delete(attrs, slog.LevelKey)
	delete(attrs, slog.MessageKey)

	out := strings.Builder{}
	out.WriteString(colorize(lightGray, r.Time.Format(prettyTimeFormat)))
	out.WriteString(" ")
	out.WriteString(colorize(levelColor(r.Level), r.Level.String()+":"))
	out.WriteString(" ")
	out.WriteString(colorize(white, r.Message))
	if len(attrs) > 0 {
		rendered, err := json.MarshalIndent(attrs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal attrs: %w", err)
		}
		out.WriteString(" ")
		out.WriteString(colorize(lightGray, string(rendered)))
	}
	out.WriteString("\n")

	_, err = io.WriteString(h.out, out.String())
	return err
}

// computeAttrs runs the record through the inner JSON handler so attr
// resolution (groups, LogValuer) stays slog's business.
func (h *PrettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mu.Lock()
	defer func() {
		h.buf.Reset()
		h.mu.Unlock()
	}()
	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("inner handle: %w", err)
	}
	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal inner record: %w", err)
	}
	return attrs, nil
}

func levelColor(level slog.Level) color {
	switch {
	case level <= slog.LevelDebug:
		return lightGray
	case level <= slog.LevelInfo:
		return cyan
	case level < slog.LevelError:
		return lightYellow
	default:
		return lightRed
	}
}
