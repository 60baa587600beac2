// Package logger provides the optional per-run debug log. Listings stay
// silent on the terminal beyond their output; anything diagnostic goes to a
// file the user asked for.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileLogger appends timestamped debug lines to a single file. Every run
// gets a fresh id so interleaved runs sharing a log file can be told apart.
// It is thread-safe, and a nil *FileLogger is a valid no-op logger.
type FileLogger struct {
	mu    sync.Mutex
	out   *os.File
	runID string
}

// NewFileLogger opens (appending) the debug log at path, creating parent
// directories as needed.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}

	l := &FileLogger{out: out, runID: uuid.NewString()}
	l.write("INFO", fmt.Sprintf("run started at %s", time.Now().Format(time.RFC3339)))
	return l, nil
}

// RunID returns the identifier stamped on every line of this run.
func (l *FileLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Debugf logs a debug-level message.
func (l *FileLogger) Debugf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs an info-level message.
func (l *FileLogger) Infof(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a warning-level message.
func (l *FileLogger) Warnf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.write("WARN", fmt.Sprintf(format, args...))
}

func (l *FileLogger) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.out, "[%s] [%s] [%s] %s\n", timestamp, l.runID[:8], level, message)
}

// Close flushes and closes the log file. Safe on a nil logger.
func (l *FileLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
