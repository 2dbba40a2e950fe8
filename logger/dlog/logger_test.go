package dlog

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestSetupFansOut(t *testing.T) {
	defer func() { Log = slog.New(slog.NewTextHandler(os.Stderr, nil)) }()

	text := &bytes.Buffer{}
	jsonBuf := &bytes.Buffer{}
	Setup(TextHandler(text, nil), JSONHandler(jsonBuf, nil))

	Info("hello", "key", "value")

	if !strings.Contains(text.String(), "hello") {
		t.Fatalf("text handler missed the record: %q", text.String())
	}
	if !strings.Contains(jsonBuf.String(), `"key":"value"`) {
		t.Fatalf("json handler missed the record: %q", jsonBuf.String())
	}
}

func TestPrettyHandler(t *testing.T) {
	out := &bytes.Buffer{}
	log := slog.New(NewPrettyHandler(out, nil))

	log.Warn("be careful", "key", "value")

	line := out.String()
	if !strings.Contains(line, "WARN:") {
		t.Fatalf("level missing: %q", line)
	}
	if !strings.Contains(line, "be careful") {
		t.Fatalf("message missing: %q", line)
	}
	if !strings.Contains(line, `"key": "value"`) {
		t.Fatalf("attrs missing: %q", line)
	}
}
