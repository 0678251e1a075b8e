package testutil

import (
	"fmt"
	"sync"

	"browsing-agent/internal/application/port/output"
)

var _ output.LoggerPort = (*FakeLogger)(nil)

// FakeLogger keeps formatted entries in memory.
type FakeLogger struct {
	mu      *sync.Mutex
	entries *[]string
	fields  map[string]any
}

func NewFakeLogger() *FakeLogger {
	return &FakeLogger{mu: &sync.Mutex{}, entries: &[]string{}, fields: map[string]any{}}
}

func (l *FakeLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, fmt.Sprintf("%s %s %v", level, msg, args))
}

func (l *FakeLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *FakeLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *FakeLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *FakeLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

func (l *FakeLogger) WithField(key string, value any) output.LoggerPort {
	return l.WithFields(map[string]any{key: value})
}

func (l *FakeLogger) WithFields(fields map[string]any) output.LoggerPort {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FakeLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *FakeLogger) Close() error { return nil }

func (l *FakeLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), *l.entries...)
}
