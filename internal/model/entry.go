package model

import "time"

// LogEntry represents a single parsed log line. It is built once at parse
// time and never mutated afterwards.
type LogEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Level     string            `json:"level"`              // upper-cased, free-form (INFO, WARN, CRITICAL, ...)
	Message   string            `json:"message"`            // extracted message content
	Source    string            `json:"source,omitempty"`   // host/process/logger, if the format exposed one
	Metadata  map[string]string `json:"metadata,omitempty"` // extra fields from the format
}
