// Package logging wraps logrus for the CLI's startup and summary messages.
// The engine and planner packages never log; only cmd/capraplan does.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger used by the CLI.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose raises the logger to debug level.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}
