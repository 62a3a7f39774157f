package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogzap "github.com/samber/slog-zap/v2"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	BackendZap    = "zap"
	BackendLogrus = "logrus"
	// BackendSlogZap routes slog through samber/slog-zap instead of zapslog.
	BackendSlogZap = "slogzap"

	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options selects the backend, level and encoding of the global logger.
type Options struct {
	Level   string
	Backend string
	Format  string
	Output  io.Writer // defaults to os.Stderr so command output on stdout stays clean
}

var (
	globalLogger *slog.Logger
	globalZap    *zap.Logger
)

// Init initializes the global slog logger on top of zap or logrus.
// The returned function flushes buffered entries and should be deferred.
func Init(opts Options) (func(), error) {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	level := ParseLevel(opts.Level)

	// Clients written against *zap.Logger share the zap core whatever the backend.
	core := newZapCore(opts.Output, opts.Format, level)
	zl := zap.New(core)
	flush := func() { _ = zl.Sync() }

	var handler slog.Handler
	switch strings.ToLower(opts.Backend) {
	case "", BackendZap:
		handler = zapslog.NewHandler(core)
	case BackendSlogZap:
		handler = slogzap.Option{Level: level, Logger: zl}.NewZapHandler()
	case BackendLogrus:
		handler = newLogrusHandler(newLogrus(opts.Output, opts.Format, level))
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}

	globalLogger = slog.New(handler)
	globalZap = zl
	slog.SetDefault(globalLogger)
	return flush, nil
}

// ParseLevel maps a level name to slog.Level, defaulting to INFO.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newZapCore(w io.Writer, format string, level slog.Level) zapcore.Core {
	var enc zapcore.Encoder
	if strings.EqualFold(format, FormatConsole) {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(toZapLevel(level)))
}

func toZapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func newLogrus(w io.Writer, format string, level slog.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if strings.EqualFold(format, FormatConsole) {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	l.SetLevel(toLogrusLevel(level))
	return l
}

func toLogrusLevel(level slog.Level) logrus.Level {
	switch {
	case level <= slog.LevelDebug:
		return logrus.DebugLevel
	case level <= slog.LevelInfo:
		return logrus.InfoLevel
	case level <= slog.LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// ensureInitialized lazily falls back to an INFO zap logger.
func ensureInitialized() {
	if globalLogger == nil {
		_, _ = Init(Options{Level: "INFO"})
	}
}

// Zap returns the zap logger sharing the global core.
func Zap() *zap.Logger {
	ensureInitialized()
	return globalZap
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Debug(msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Enabled reports whether the global logger emits records at level.
func Enabled(level slog.Level) bool {
	ensureInitialized()
	return globalLogger.Enabled(context.Background(), level)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
