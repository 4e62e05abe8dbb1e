// Package logtest contains Loggers for tests.
package logtest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

// DiscardLogger drops all messages.
var DiscardLogger log.Logger = discardLogger{}

type discardLogger struct{}

// Printf implements the log.Logger interface
func (discardLogger) Printf(format string, v ...interface{}) {}

// Logger records messages so tests can check if something was logged.
// It is safe to use from multiple goroutines.
type Logger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

var _ log.Logger = NewLogger()

// NewLogger creates an empty Logger.
func NewLogger() *Logger {
	return new(Logger)
}

// Printf implements the log.Logger interface
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
}

// String returns everything that has been logged.
func (l *Logger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// Empty reports whether nothing has been logged.
func (l *Logger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len() == 0
}

// Reset clears the messages.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}
