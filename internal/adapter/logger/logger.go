package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Warn(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	log *slog.Logger
}

type options struct {
	out   io.Writer
	level Level
}

type Option func(*options)

func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func WithLevel(l Level) Option {
	return func(o *options) { o.level = l }
}

// New returns a JSON logger tagged with the service name and host. Output defaults to stderr.
func New(service string, opts ...Option) Logger {
	o := options{out: os.Stderr, level: LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}

	hostname, _ := os.Hostname()
	handler := slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: o.level.slogLevel()})

	return &jsonLogger{
		log: slog.New(handler).With(
			slog.String("service", service),
			slog.String("hostname", hostname),
		),
	}
}

// Nop discards everything
func Nop() Logger {
	return New("nop", WithOutput(io.Discard), WithLevel(LevelError))
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.write(slog.LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.write(slog.LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Warn(action, message, requestID string, details map[string]interface{}) {
	l.write(slog.LevelWarn, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.write(slog.LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) write(level slog.Level, action, message, requestID string, details map[string]interface{}, err error) {
	ctx := context.Background()
	if !l.log.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{slog.String("action", action)}
	if requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}
	if len(details) > 0 {
		attrs = append(attrs, slog.Any("details", details))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}

	l.log.LogAttrs(ctx, level, message, attrs...)
}
