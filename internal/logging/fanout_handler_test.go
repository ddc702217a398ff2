package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

type recordingHandler struct {
	level   slog.Level
	records []slog.Record
	attrs   []slog.Attr
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool { return level >= h.level }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(h.attrs, attrs...)
	return h
}

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func TestFanoutHandlerRespectsPerHandlerLevels(t *testing.T) {
	debug := &recordingHandler{level: slog.LevelDebug}
	warn := &recordingHandler{level: slog.LevelWarn}
	h := newFanoutHandler(debug, warn)

	ctx := context.Background()
	if !h.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("fanout should be enabled when any child is")
	}
	_ = h.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "info", 0))
	_ = h.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelError, "error", 0))

	if len(debug.records) != 2 {
		t.Fatalf("debug handler expected 2 records, got %d", len(debug.records))
	}
	if len(warn.records) != 1 || warn.records[0].Message != "error" {
		t.Fatalf("warn handler expected only the error record, got %v", warn.records)
	}
}

func TestFanoutHandlerCollapsesTrivialCases(t *testing.T) {
	if _, ok := newFanoutHandler().(NoopHandler); !ok {
		t.Fatal("expected noop handler for empty fanout")
	}
	single := &recordingHandler{}
	if got := newFanoutHandler(nil, single); got != single {
		t.Fatal("expected single handler to be returned directly")
	}
}

func TestFanoutHandlerWithAttrsPropagates(t *testing.T) {
	a := &recordingHandler{}
	b := &recordingHandler{}
	newFanoutHandler(a, b).WithAttrs([]slog.Attr{slog.String("k", "v")})
	if len(a.attrs) != 1 || len(b.attrs) != 1 {
		t.Fatalf("expected attrs on both children, got %v / %v", a.attrs, b.attrs)
	}
}
