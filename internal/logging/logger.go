package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the configured level and format.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// LogError logs a failure with the module and function it came from.
func LogError(logger *logrus.Logger, module, funcName, context string, data map[string]interface{}, err error) {
	fields := logrus.Fields{
		"module":   module,
		"function": funcName,
	}
	for k, v := range data {
		fields[k] = v
	}
	logger.WithFields(fields).WithError(err).Error(context)
}
