// Package logger builds the structured request logger shared by the HTTP server and the application.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/go-chi/httplog/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the logger output.
type Options struct {
	JSON    bool
	Level   slog.Level
	Concise bool

	// File enables an additional rotated log file when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns an httplog logger writing to stdout and, if opts.File is set, to a rotated file.
func New(serviceName string, opts Options) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		JSON:     opts.JSON,
		LogLevel: opts.Level,
		Concise:  opts.Concise,
		Writer:   writer(opts),
	})
}

func writer(opts Options) io.Writer {
	if opts.File == "" {
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	})
}
