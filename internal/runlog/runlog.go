// Package runlog builds the component loggers used during a sync run.
//
// Every component takes a *log.Logger with a "[component] " prefix. By default
// loggers write to stderr; when a log file is configured the same lines are
// also appended to a size-rotated file.
package runlog

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the log sink.
type Options struct {
	// File is the rotated log file path. Empty disables file logging.
	File string

	// MaxSizeMB is the size in megabytes at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int

	// Quiet drops console output; the file sink (if any) still receives lines.
	Quiet bool

	// Console is where console lines go. Nil means stderr.
	Console io.Writer
}

// Sink fans log lines out to the console and an optional rotated file.
type Sink struct {
	out  io.Writer
	file *lumberjack.Logger
}

// Open creates a sink from options. Close must be called to release the file.
func Open(opts Options) *Sink {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if opts.Quiet {
		console = io.Discard
	}
	if opts.File == "" {
		return &Sink{out: console}
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	return &Sink{
		out:  io.MultiWriter(console, file),
		file: file,
	}
}

// Logger returns a logger for the named component.
func (s *Sink) Logger(component string) *log.Logger {
	return log.New(s.out, "["+component+"] ", log.LstdFlags)
}

// Close closes the rotated file, if any.
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Default returns a stderr logger for the named component. Components fall
// back to it when the caller passes a nil logger.
func Default(component string) *log.Logger {
	return log.New(os.Stderr, "["+component+"] ", log.LstdFlags)
}
