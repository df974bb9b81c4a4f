package logger

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

const module = "lottery"

var logger *logging.Logger

func init() {
	InitLogger(logging.INFO)
}

// InitLogger configures the package logger to write to stderr at the given level.
func InitLogger(level logging.Level) {
	initLogger(os.Stderr, level)
}

// InitLoggerTo is InitLogger with a custom destination, used by tests.
func InitLoggerTo(w io.Writer, level logging.Level) {
	initLogger(w, level)
}

func initLogger(w io.Writer, level logging.Level) {
	newLogger := logging.MustGetLogger(module)

	backend := logging.NewLogBackend(w, "", 0)
	format := logging.MustStringFormatter(`%{time:2006/01/02 15:04:05} %{level:.4s} - %{message}`)
	backendFormatter := logging.NewBackendFormatter(backend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	backendLeveled.SetLevel(level, module)
	newLogger.SetBackend(backendLeveled)

	logger = newLogger
}

// ParseLevel maps a level name such as "debug" or "WARNING" to a logging level.
// Unknown names fall back to INFO.
func ParseLevel(name string) logging.Level {
	level, err := logging.LogLevel(name)
	if err != nil {
		return logging.INFO
	}
	return level
}

func Debug(args ...any) {
	logger.Debug(args...)
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
}

func Info(args ...any) {
	logger.Info(args...)
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
}

func Warning(args ...any) {
	logger.Warning(args...)
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
}

func Error(args ...any) {
	logger.Error(args...)
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
}
