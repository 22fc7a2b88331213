// Package logger builds the application's logrus loggers.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logger writing to stdout at the given level. The
// environment picks the formatter: production logs JSON, everything else
// gets colored text for local reading. An unparseable level falls back
// to info with a warning.
func NewLogger(logLevel, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
