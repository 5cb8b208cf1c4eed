package log

import (
	"io"

	"github.com/kataras/golog"
)

// GologLogger implements Logger interface using kataras/golog
type GologLogger struct {
	logger *golog.Logger
	level  LogLevel
}

var _ Logger = (*GologLogger)(nil)

// NewGologLogger creates a new logger using an existing golog.Logger
func NewGologLogger(logger *golog.Logger) *GologLogger {
	return &GologLogger{
		logger: logger,
		level:  LogLevelInfo, // default level
	}
}

// NewDefaultGologLogger creates a golog logger prefixed with the service name.
func NewDefaultGologLogger(level LogLevel) *GologLogger {
	glogger := golog.New()
	glogger.SetPrefix("[research] ")
	l := NewGologLogger(glogger)
	l.SetLevel(level)
	return l
}

// NewWriterLogger creates a golog logger that writes to out without timestamps.
func NewWriterLogger(out io.Writer, level LogLevel) *GologLogger {
	glogger := golog.New()
	glogger.SetOutput(out)
	glogger.SetTimeFormat("")
	l := NewGologLogger(glogger)
	l.SetLevel(level)
	return l
}

// Debug logs debug messages
func (l *GologLogger) Debug(format string, v ...any) {
	if l.level <= LogLevelDebug {
		l.logger.Debugf(format, v...)
	}
}

// Info logs informational messages
func (l *GologLogger) Info(format string, v ...any) {
	if l.level <= LogLevelInfo {
		l.logger.Infof(format, v...)
	}
}

// Warn logs warning messages
func (l *GologLogger) Warn(format string, v ...any) {
	if l.level <= LogLevelWarn {
		l.logger.Warnf(format, v...)
	}
}

// Error logs error messages
func (l *GologLogger) Error(format string, v ...any) {
	if l.level <= LogLevelError {
		l.logger.Errorf(format, v...)
	}
}

// SetLevel sets the log level
func (l *GologLogger) SetLevel(level LogLevel) {
	l.level = level

	gologLevel := "info"
	switch level {
	case LogLevelDebug:
		gologLevel = "debug"
	case LogLevelInfo:
		gologLevel = "info"
	case LogLevelWarn:
		gologLevel = "warn"
	case LogLevelError:
		gologLevel = "error"
	case LogLevelNone:
		gologLevel = "disable"
	}

	l.logger.SetLevel(gologLevel)
}

// GetLevel returns the current log level
func (l *GologLogger) GetLevel() LogLevel {
	return l.level
}
