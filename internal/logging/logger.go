package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields carries structured context alongside a log message.
type Fields map[string]interface{}

var (
	logger *zap.Logger
	mu     sync.RWMutex
)

// Options controls where log output goes. Zero value logs JSON to stdout.
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// Init builds the process logger. When Dir is set, output is duplicated into
// a size-rotated file next to stdout.
func Init(opts Options) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	level := parseLevel(opts.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return err
		}
		name := opts.Filename
		if name == "" {
			name = "arena.log"
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, name),
			MaxSize:    opts.MaxSizeMB,
			MaxAge:     opts.MaxAgeDays,
			MaxBackups: opts.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}

	mu.Lock()
	logger = zap.New(zapcore.NewTee(cores...))
	mu.Unlock()
	return nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func get() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		mu.Lock()
		if logger == nil {
			logger, _ = zap.NewProduction()
		}
		l = logger
		mu.Unlock()
	}
	return l
}

func zapFields(fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	get().Info(msg, zapFields(fields)...)
}

// Warn logs a warning with optional fields.
func Warn(msg string, fields Fields) {
	get().Warn(msg, zapFields(fields)...)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	get().Error(msg, zf...)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	get().Fatal(msg, zf...)
}

// Sync flushes buffered output; called on shutdown.
func Sync() {
	_ = get().Sync()
}
