package log

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var (
	API        logrus.FieldLogger
	Engine     logrus.FieldLogger
	Repository logrus.FieldLogger
	Scheduler  logrus.FieldLogger
)

func init() {
	SetupLoggers("", "local", false)
}

// SetupLoggers (re)builds every package logger. An empty outputFile
// keeps logrus' default stderr output.
func SetupLoggers(outputFile string, environment string, debug bool) {
	API = Logger(newLogger(debug), outputFile, "api", environment)
	Engine = Logger(newLogger(debug), outputFile, "engine", environment)
	Repository = Logger(newLogger(debug), outputFile, "repository", environment)
	Scheduler = Logger(newLogger(debug), outputFile, "scheduler", environment)
}

func Logger(logger *logrus.Logger, outputFile string,
	application, environment string) logrus.FieldLogger {

	if outputFile != "" {
		if file, err := os.OpenFile(filepath.Clean(outputFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640); err == nil {
			logger.SetOutput(file)
		} else {
			logger.Infof("Failed to open output file %s. Will use stderr. %s",
				outputFile, err.Error())
		}
	}

	return logger.WithFields(logrus.Fields{
		"application": application,
		"environment": environment})
}

func newLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
