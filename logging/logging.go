package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"revisor/config"

	"github.com/sirupsen/logrus"
)

// TimestampFormat is the layout used for text log lines.
const TimestampFormat = "2006-01-02 15:04:05"

// InitLogger initializes the logger based on the configuration.
func InitLogger() {
	cfg := config.AppConfig.Logging

	// Set log level
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using 'info' instead. Error: %v", cfg.Level, err)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Set log format
	switch strings.ToLower(cfg.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: TimestampFormat})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: TimestampFormat,
			DisableColors:   true,
		})
	}

	// Set log output. stdout is reserved for --echo, so fall back to stderr.
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	case "stderr", "":
		output = os.Stderr
	default:
		if dir := filepath.Dir(cfg.Output); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logrus.Warnf("Failed to open log file '%s', using 'stderr' instead. Error: %v", cfg.Output, err)
			output = os.Stderr
		} else {
			output = file
		}
	}
	logrus.SetOutput(output)

	logrus.Debug("Logger initialized successfully")
}
