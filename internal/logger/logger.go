// Package logger sets up the shared file logger. The TUI owns the
// terminal, so normal operation logs only to a rotating file under the
// data directory; debug mode mirrors to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared logger instance. Nil until Init runs; callers in
// hot paths should use Get, which falls back to a stderr logger.
var Logger *log.Logger

type Config struct {
	Debug   bool
	DataDir string
}

func Init(cfg Config) error {
	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "planner.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	level := log.InfoLevel
	var writer io.Writer = fileWriter
	if cfg.Debug {
		level = log.DebugLevel
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return nil
}

// Get returns the shared logger, initializing a stderr fallback if Init
// was never called.
func Get() *log.Logger {
	if Logger == nil {
		Logger = log.New(os.Stderr)
	}
	return Logger
}
