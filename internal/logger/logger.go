// Package logger builds the daemon's structured logger: human readable text
// on the console, JSON to an optional rotating file, and a small buffer of
// recent warnings for the simulator's status line.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure New.
type Options struct {
	Level slog.Level
	// Console receives text output; nil disables it.
	Console io.Writer
	// File, if set, receives JSON output with rotation.
	File string
}

// Entry is a captured log entry.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Logger is a slog.Logger that owns its outputs.
type Logger struct {
	*slog.Logger
	file   *lumberjack.Logger
	recent *ringBuffer
}

// New creates a logger. WARN and ERROR entries are kept for Recent.
func New(opts Options) *Logger {
	l := &Logger{recent: newRingBuffer(16)}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	var handlers []slog.Handler
	if opts.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Console, hopts))
	}
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		handlers = append(handlers, slog.NewJSONHandler(l.file, hopts))
	}

	l.Logger = slog.New(&captureHandler{
		inner:  fanout(handlers),
		buffer: l.recent,
	})
	return l
}

// Recent returns the last captured WARN and ERROR entries, oldest first.
func (l *Logger) Recent() []Entry {
	return l.recent.getAll()
}

// Counts returns how many warnings and errors were logged.
func (l *Logger) Counts() (warn, err int) {
	return l.recent.getCounts()
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ringBuffer is a fixed-size circular buffer for log entries.
type ringBuffer struct {
	mu      sync.RWMutex
	entries []Entry
	head    int
	count   int

	warnCount  int
	errorCount int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{entries: make([]Entry, size)}
}

func (rb *ringBuffer) add(e Entry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = e
	rb.head = (rb.head + 1) % len(rb.entries)
	if rb.count < len(rb.entries) {
		rb.count++
	}

	if e.Level >= slog.LevelError {
		rb.errorCount++
	} else {
		rb.warnCount++
	}
}

func (rb *ringBuffer) getAll() []Entry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	size := len(rb.entries)
	out := make([]Entry, rb.count)
	for i := range out {
		out[i] = rb.entries[(rb.head-rb.count+i+size)%size]
	}
	return out
}

func (rb *ringBuffer) getCounts() (warn, err int) {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.warnCount, rb.errorCount
}

// captureHandler records WARN and above before passing records on.
type captureHandler struct {
	inner  slog.Handler
	buffer *ringBuffer
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn || h.inner.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.buffer.add(Entry{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	if !h.inner.Enabled(ctx, r.Level) {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{inner: h.inner.WithAttrs(attrs), buffer: h.buffer}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{inner: h.inner.WithGroup(name), buffer: h.buffer}
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
