package gctoo

import (
	"io"
	"log"
)

// Logger is the logging surface used throughout the package. *log.Logger and
// logrus loggers both satisfy it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// DiscardLogger drops everything.
var DiscardLogger Logger = log.New(io.Discard, "", 0)

// LoggerOrDiscard returns l, or DiscardLogger when l is nil.
func LoggerOrDiscard(l Logger) Logger {
	if l == nil {
		return DiscardLogger
	}
	return l
}
