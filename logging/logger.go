package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Config selects the logger's level and output shape.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
}

// Logger wraps zerolog.Logger with the key-value call shape the rest of
// jobtree uses: Info(msg, "key", value, ...).
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger from cfg, writing to stdout.
func New(cfg Config) *Logger {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg Config, w io.Writer) *Logger {
	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	zl := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a derived Logger carrying the given key/value pairs on
// every subsequent entry.
func (l *Logger) With(kv ...any) *Logger {
	ctx := l.zl.With()
	ctx = applyFields(ctx, kv)
	return &Logger{zl: ctx.Logger()}
}

func applyFields(ctx zerolog.Context, kv []any) zerolog.Context {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, kv[i+1])
	}
	return ctx
}

func (l *Logger) event(e *zerolog.Event, msg string, kv ...any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (l *Logger) Debug(msg string, kv ...any) { l.event(l.zl.Debug(), msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.event(l.zl.Info(), msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.event(l.zl.Warn(), msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.event(l.zl.Error(), msg, kv...) }

// WithContext stashes l in ctx so downstream code can recover it with
// FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.zl.WithContext(ctx)
}

// FromContext recovers a Logger stashed by WithContext, or Default if
// none was stashed.
func FromContext(ctx context.Context) *Logger {
	zl := zerolog.Ctx(ctx)
	if zl == zerolog.Ctx(context.Background()) {
		return Default()
	}
	return &Logger{zl: *zl}
}

var defaultLogger = New(Config{Level: "info", Format: "json"})

// Default returns the package-level default Logger.
func Default() *Logger { return defaultLogger }

// SetDefault replaces the package-level default Logger.
func SetDefault(l *Logger) { defaultLogger = l }

func Debug(msg string, kv ...any) { defaultLogger.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { defaultLogger.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { defaultLogger.Warn(msg, kv...) }
func Error(msg string, kv ...any) { defaultLogger.Error(msg, kv...) }
