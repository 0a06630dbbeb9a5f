package core

import (
	"fmt"
	"io"
)

// Logger interface for batch and renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// NopLogger discards everything; used for --quiet and in tests
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// WriterLogger implements Logger over any io.Writer
type WriterLogger struct {
	w io.Writer
}

// NewWriterLogger creates a logger that writes to w
func NewWriterLogger(w io.Writer) Logger {
	return &WriterLogger{w: w}
}

func (wl *WriterLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(wl.w, format, args...)
}
