// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of devicejail

// Package logger holds the process-wide logrus logger.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogFormat string

const (
	levelOpt  = "level"
	formatOpt = "format"

	logFormatText LogFormat = "text"
	logFormatJSON LogFormat = "json"

	defaultLogFormat LogFormat    = logFormatText
	defaultLogLevel  logrus.Level = logrus.InfoLevel
)

// DefaultLogger is the base logrus logger. It is distinct from the logrus
// package default so libraries can't write to our output unexpectedly.
var DefaultLogger = InitializeDefaultLogger()

// LogOptions maps configuration key-value pairs related to logging.
type LogOptions map[string]string

// InitializeDefaultLogger returns a logrus Logger with the formatter and
// level this project defaults to.
func InitializeDefaultLogger() (logger *logrus.Logger) {
	logger = logrus.New()
	fmt, _ := getFormatter(defaultLogFormat)
	logger.SetFormatter(fmt)
	logger.SetLevel(defaultLogLevel)
	return
}

func getFormatter(format LogFormat) (logrus.Formatter, error) {
	switch format {
	case logFormatText:
		return &logrus.TextFormatter{
			DisableColors: true,
		}, nil
	case logFormatJSON:
		return &logrus.JSONFormatter{}, nil
	default:
		return &logrus.TextFormatter{}, fmt.Errorf("invalid log format '%s'", string(format))
	}
}

func (o LogOptions) getLogLevel() (level logrus.Level) {
	l, ok := o[levelOpt]
	if !ok {
		return defaultLogLevel
	}

	var err error
	if level, err = logrus.ParseLevel(l); err != nil {
		logrus.WithError(err).Warning("Ignoring user-configured log level")
		return defaultLogLevel
	}
	return
}

func (o LogOptions) getLogFormat() LogFormat {
	format, ok := o[formatOpt]
	if !ok {
		return defaultLogFormat
	}
	return LogFormat(strings.ToLower(format))
}

// PopulateLogOpts populates the logger options making sure that passed
// values are valid.
func PopulateLogOpts(o LogOptions, level string, format string) {
	if level != "" {
		if _, err := logrus.ParseLevel(level); err != nil {
			logrus.WithError(fmt.Errorf("incorrect log level '%s'", level)).Warning("Ignoring user-configured log level")
		} else {
			o[levelOpt] = level
		}
	}

	if format != "" {
		format = strings.ToLower(format)
		switch LogFormat(format) {
		case logFormatText, logFormatJSON:
			o[formatOpt] = format
		default:
			logrus.WithError(fmt.Errorf("incorrect log format '%s', expected 'text' or 'json'", format)).Warning("Ignoring user-configured log format")
		}
	}
}

// SetupLogging applies logger options, the debug flag overriding any
// configured level.
func SetupLogging(o LogOptions, debug bool) error {
	f, err := getFormatter(o.getLogFormat())
	if err != nil {
		return err
	}
	DefaultLogger.SetFormatter(f)
	DefaultLogger.SetOutput(os.Stderr)

	if debug {
		DefaultLogger.SetLevel(logrus.DebugLevel)
	} else {
		DefaultLogger.SetLevel(o.getLogLevel())
	}

	// Suppress the package-level default logger so libraries that use it
	// don't print things.
	logrus.SetLevel(logrus.PanicLevel)

	return nil
}

// GetLogger returns the DefaultLogger that was previously set up.
func GetLogger() logrus.FieldLogger {
	return DefaultLogger
}
