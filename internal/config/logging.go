package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogging applies the logging configuration to the standard logrus logger.
// An unknown level falls back to info. When no format is set, production uses
// JSON and every other environment uses text.
func ConfigureLogging(cfg *Config) {
	configureLogger(logrus.StandardLogger(), cfg, os.Stdout)
}

func configureLogger(logger *logrus.Logger, cfg *Config, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(out)

	format := cfg.Logging.Format
	if format == "" {
		format = "text"
		if cfg.IsProduction() {
			format = "json"
		}
	}

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.Logging.Level != "" {
		logger.WithField("level", cfg.Logging.Level).Warn("Unknown log level, using info")
	}
}
