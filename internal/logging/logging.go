// Package logging builds the logrus loggers used by the CLI and daemon.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fuellog/internal/config"
)

// New returns a logger writing to out at the given level. Unknown levels
// fall back to info. format "json" selects the JSON formatter.
func New(out io.Writer, level, format string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// FromConfig returns a stderr logger configured from cfg. quiet raises
// the level to error.
func FromConfig(cfg config.Config, quiet bool) *logrus.Logger {
	level := cfg.General.LogLevel
	if quiet {
		level = "error"
	}
	return New(os.Stderr, level, cfg.General.LogFormat)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
