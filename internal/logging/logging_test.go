package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v want %v", input, got, want)
		}
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liketagger.log")

	logger, closer := New(Options{Level: "info", File: path})
	logger.Info("hello", "component", "test")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"msg":"hello"`)) {
		t.Fatalf("expected entry in log file, got %s", data)
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty request id got %q", got)
	}

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithSubject(ctx, "user-1")
	ctx = WithSubject(ctx, "")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("unexpected request id %q", got)
	}
	if got := SubjectFromContext(ctx); got != "user-1" {
		t.Fatalf("empty subject must not overwrite, got %q", got)
	}
	if FromContext(ctx) != slog.Default() {
		t.Fatal("expected default logger fallback")
	}
}

func TestStartSpanNestsUnderTrace(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), base)

	ctx, parent := StartSpan(ctx, "outer")
	traceID := TraceIDFromContext(ctx)
	parentID := SpanIDFromContext(ctx)

	childCtx, child := StartSpan(ctx, "inner", slog.String("table", "tags"))
	if TraceIDFromContext(childCtx) != traceID {
		t.Fatal("expected child span to share trace id")
	}
	child.End(errors.New("boom"))
	parent.End(nil)

	dec := json.NewDecoder(&buf)
	var first map[string]any
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first["msg"] != "span failed" || first["parent_span_id"] != parentID || first["table"] != "tags" {
		t.Fatalf("unexpected child entry: %v", first)
	}

	var second map[string]any
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if second["msg"] != "span completed" || second["span_name"] != "outer" {
		t.Fatalf("unexpected parent entry: %v", second)
	}
}

func TestStartSpanTagsSubjectOnRootSpan(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithSubject(WithLogger(context.Background(), base), "user-9")

	ctx, root := StartSpan(ctx, "list tags")
	_, child := StartSpan(ctx, "inner")
	child.End(nil)
	root.End(nil)

	dec := json.NewDecoder(&buf)
	for _, name := range []string{"inner", "list tags"} {
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if entry["span_name"] != name || entry["subject"] != "user-9" {
			t.Fatalf("expected subject on %s entry, got %v", name, entry)
		}
	}
}
