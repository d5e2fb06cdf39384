// Package logging builds the leveled loggers used across autodev.
//
// Command-line subcommands log to stderr. While the TUI owns the terminal,
// logs go to a file instead.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Debug output is only emitted when
// debug is set.
func New(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "autodev",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	logger.SetLevel(log.InfoLevel)
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// OpenFile returns a logger appending to path. The caller closes the file.
func OpenFile(path string, debug bool) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, debug), f, nil
}

// Discard returns a logger that drops everything. Used by tests and as the
// zero value for components built without one.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
