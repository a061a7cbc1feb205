// Package observability defines the logging and tracing hooks used by the
// stitching and parsing pipelines. The interfaces are deliberately small so
// callers can plug in their own logging stack; everything defaults to
// no-ops.
package observability

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// WriterLogger emits one line per entry to an io.Writer. It is the logger
// the CLI installs for progress reporting; library code never assumes any
// particular output format.
type WriterLogger struct {
	mu     sync.Mutex
	w      io.Writer
	bound  []Field
	debugs bool
}

// NewWriterLogger constructs a line-oriented logger. When debug is false,
// Debug entries are discarded.
func NewWriterLogger(w io.Writer, debug bool) *WriterLogger {
	return &WriterLogger{w: w, debugs: debug}
}

func (l *WriterLogger) Debug(msg string, fields ...Field) {
	if l.debugs {
		l.emit("DEBUG", msg, fields)
	}
}
func (l *WriterLogger) Info(msg string, fields ...Field)  { l.emit("INFO", msg, fields) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.emit("WARN", msg, fields) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.emit("ERROR", msg, fields) }

func (l *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{w: l.w, debugs: l.debugs}
	child.bound = append(append([]Field(nil), l.bound...), fields...)
	return child
}

func (l *WriterLogger) emit(level, msg string, fields []Field) {
	all := append(append([]Field(nil), l.bound...), fields...)
	parts := make([]string, 0, len(all))
	for _, f := range all {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key(), f.Value()))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(parts) == 0 {
		fmt.Fprintf(l.w, "%s %s\n", level, msg)
		return
	}
	fmt.Fprintf(l.w, "%s %s %s\n", level, msg, strings.Join(parts, " "))
}

// Tracer provides tracing hooks for pipeline operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span.
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer that does nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Standard metric names emitted by the library.
const (
	MetricStitchTime        = "stitch.duration"
	MetricOverlapCandidates = "stitch.overlap.candidates"
	MetricCompositeHeight   = "stitch.composite.height"
	MetricMessagesParsed    = "chat.messages.count"
	MetricRecognizeTime     = "ocr.recognize.duration"
)
