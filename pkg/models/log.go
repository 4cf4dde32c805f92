package models

import (
	"strings"
	"time"
)

// LogLevel represents the severity of a log event.
type LogLevel string

const (
	LevelDebug    LogLevel = "DEBUG"
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
)

// ValidLogLevel reports whether level is one of the known log levels.
func ValidLogLevel(level LogLevel) bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return true
	}
	return false
}

// NormalizeLogLevel uppercases level and falls back to INFO for unknown values.
func NormalizeLogLevel(level string) LogLevel {
	l := LogLevel(strings.ToUpper(strings.TrimSpace(level)))
	if !ValidLogLevel(l) {
		return LevelInfo
	}
	return l
}

// LogEvent is a single structured log record. Events are immutable once
// written to the event store.
type LogEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	App       string         `json:"app,omitempty"`
	Component string         `json:"component"`
	Message   string         `json:"message"`
	Level     LogLevel       `json:"level"`
	Details   map[string]any `json:"details,omitempty"`
}
