// Package logger provides process-wide logging for the fusionqa CLI.
// Debug, Info and Warn output only appears with --verbose; errors are always
// written. Output is produced by a zap console core so adapters that want
// structured fields can take the underlying *zap.Logger via L.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = build(os.Stderr, false)
)

func build(w io.Writer, v bool) *zap.Logger {
	level := zapcore.ErrorLevel
	if v {
		level = zapcore.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		NameKey:          "logger",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = build(output, verbose)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = build(output, verbose)
}

// Use replaces the backing logger, e.g. with a zaptest logger. Later calls
// to SetVerbose or SetOutput rebuild the default console logger.
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// L returns the current zap logger. The returned logger follows the
// verbosity in effect at the time of the call.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) {
	L().Debug(fmt.Sprintf(format, args...))
}

// Section logs a section header.
func Section(name string) {
	L().Info(fmt.Sprintf("=== %s ===", name))
}

// Info logs a formatted informational message.
func Info(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	L().Warn(fmt.Sprintf(format, args...))
}

// Error logs a formatted error. Errors are written regardless of verbosity.
func Error(format string, args ...any) {
	L().Error(fmt.Sprintf(format, args...))
}
