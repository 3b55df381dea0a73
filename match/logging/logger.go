package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the log level.
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// ResultCounts holds the outcome tallies for one collection or for an
// aggregate search run.
type ResultCounts struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// LogEntry represents a structured log entry.
type LogEntry struct {
	Timestamp  time.Time     `json:"timestamp"`
	Level      LogLevel      `json:"level"`
	Message    string        `json:"message"`
	Service    string        `json:"service"`
	Operation  string        `json:"operation,omitempty"`
	Collection string        `json:"collection,omitempty"`
	Counts     *ResultCounts `json:"counts,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Logger is a structured JSON logger.
type Logger struct {
	logPath string
	file    *os.File
	mu      sync.Mutex
	service string
}

// NewLogger creates a new structured JSON logger.
// logPath is the path to the log file.
// service is the service name (e.g., "musicmatch" or "musicmatch-check").
func NewLogger(logPath, service string) (*Logger, error) {
	// Ensure log directory exists
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file in append mode
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		logPath: logPath,
		file:    file,
		service: service,
	}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// log writes a log entry.
func (l *Logger) log(entry LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.Timestamp = time.Now()
	entry.Service = l.service

	// Marshal to JSON
	jsonData, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		// Fallback to simple format if JSON marshaling fails
		_, _ = fmt.Fprintf(l.file, "{\"timestamp\":\"%s\",\"level\":\"%s\",\"message\":\"%s\",\"service\":\"%s\"}\n",
			time.Now().Format(time.RFC3339), entry.Level, entry.Message, l.service)
		return
	}

	// Write JSON line
	_, _ = fmt.Fprintln(l.file, string(jsonData))
}

// Debug logs a debug message.
func (l *Logger) Debug(message string) {
	l.log(LogEntry{Level: LogLevelDebug, Message: message})
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// DebugWithOperation logs a debug message with operation context.
func (l *Logger) DebugWithOperation(operation, message string) {
	l.log(LogEntry{Level: LogLevelDebug, Message: message, Operation: operation})
}

// Info logs an info message.
func (l *Logger) Info(message string) {
	l.log(LogEntry{Level: LogLevelInfo, Message: message})
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// InfoWithOperation logs an info message with operation context.
func (l *Logger) InfoWithOperation(operation, message string) {
	l.log(LogEntry{Level: LogLevelInfo, Message: message, Operation: operation})
}

// InfoWithCollection logs an info message tied to a named collection.
func (l *Logger) InfoWithCollection(collection, message string) {
	l.log(LogEntry{Level: LogLevelInfo, Message: message, Collection: collection})
}

// Result logs the outcome tallies for a single collection.
func (l *Logger) Result(collection string, counts ResultCounts) {
	l.log(LogEntry{
		Level:      LogLevelInfo,
		Message:    "search result",
		Operation:  "search",
		Collection: collection,
		Counts:     &counts,
	})
}

// Aggregate logs the outcome tallies for a whole search run.
func (l *Logger) Aggregate(operation string, counts ResultCounts) {
	l.log(LogEntry{
		Level:     LogLevelInfo,
		Message:   "aggregate result",
		Operation: operation,
		Counts:    &counts,
	})
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.log(LogEntry{Level: LogLevelWarn, Message: message})
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// WarnWithCollection logs a warning message tied to a named collection.
func (l *Logger) WarnWithCollection(collection, message string) {
	l.log(LogEntry{Level: LogLevelWarn, Message: message, Collection: collection})
}

// Error logs an error message.
func (l *Logger) Error(message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.log(entry)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...), nil)
}

// ErrorWithCollection logs an error message tied to a named collection.
func (l *Logger) ErrorWithCollection(collection, message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message, Collection: collection}
	if err != nil {
		entry.Error = err.Error()
	}
	l.log(entry)
}
