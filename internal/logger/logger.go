package logger

import (
	"io"
	"log"
)

const (
	DebugLevel = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	logLevelsCount // actually not a real log level, but simplifies some code
)

type Logger struct {
	loggers [logLevelsCount]*log.Logger
}

func logLevelPrefix(level int) string {
	switch level {
	case DebugLevel:
		return "[DBG] "
	case InfoLevel:
		return "[INF] "
	case WarningLevel:
		return "[WRN] "
	case ErrorLevel:
		return "[ERR] "
	default:
		return "[???] "
	}
}

func New(level int, writers ...io.Writer) *Logger {
	null := &nullWriter{}
	lgr := Logger{}

	makeWriter := func() io.Writer {
		switch len(writers) {
		case 0:
			return null
		case 1:
			return writers[0]
		default:
			return io.MultiWriter(writers...)
		}
	}

	for i := 0; i < logLevelsCount; i++ {
		if i >= level {
			lgr.loggers[i] = log.New(makeWriter(), logLevelPrefix(i), log.Ldate|log.Ltime)
		} else {
			lgr.loggers[i] = log.New(null, "", log.Ldate|log.Ltime)
		}
	}
	return &lgr
}

func (lgr *Logger) Debug() *log.Logger {
	return lgr.loggers[DebugLevel]
}

func (lgr *Logger) Info() *log.Logger {
	return lgr.loggers[InfoLevel]
}

func (lgr *Logger) Warning() *log.Logger {
	return lgr.loggers[WarningLevel]
}

func (lgr *Logger) Error() *log.Logger {
	return lgr.loggers[ErrorLevel]
}
