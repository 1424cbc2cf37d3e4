// Package logger writes gitpeek's diagnostics to a file. The terminal is in
// raw mode while the dashboard runs, so nothing here ever touches stdout or
// stderr once initialized.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar)
	logFile    io.Closer
	mu         sync.Mutex
	initDone   bool
	logPath    string
	debug      bool
)

// DefaultLogPath returns the log file used when no --log-file is given.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "gitpeek.log")
}

// SetDebug enables debug level logging
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
	levelVar.Set(level())
}

func level() slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Init opens path for appending and routes all log calls to it.
// Calling Init again after a successful call is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	attach(f, f)
	logPath = path

	slogLogger.Info("Logger initialized", "path", path)
	return nil
}

// InitWriter routes log output to w. Used by tests and by callers that
// already own a writer.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	attach(w, nil)
}

func attach(w io.Writer, closer io.Closer) {
	levelVar.Set(level())
	slogLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
	logFile = closer
	initDone = true
}

func logWithLevel(level slog.Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if slogLogger == nil {
		return
	}
	if !slogLogger.Enabled(context.Background(), level) {
		return
	}
	slogLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

// Debug writes a debug message (only when debug logging is enabled)
func Debug(format string, args ...interface{}) {
	logWithLevel(slog.LevelDebug, format, args...)
}

// Info writes an info message
func Info(format string, args ...interface{}) {
	logWithLevel(slog.LevelInfo, format, args...)
}

// Warn writes a warning message
func Warn(format string, args ...interface{}) {
	logWithLevel(slog.LevelWarn, format, args...)
}

// Error writes an error message
func Error(format string, args ...interface{}) {
	logWithLevel(slog.LevelError, format, args...)
}

// ComponentLogger returns a slog.Logger with the component attribute pre-attached.
// Before Init it returns a logger that discards everything, so callers never
// reach the terminal by accident.
//
// Example:
//
//	log := logger.ComponentLogger("git")
//	log.Debug("fetch done", "path", path, "took", d)
func ComponentLogger(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if slogLogger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slogLogger.With(slog.String("component", component))
}

// Path returns the file currently receiving log output, or "".
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// Reset resets the logger state, allowing reinitialization.
// This is primarily for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	initDone = false
	logPath = ""
	slogLogger = nil
	debug = false
	levelVar = new(slog.LevelVar)
}
