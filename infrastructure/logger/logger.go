package logger

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Logger is a leveled logger for a single subsystem.
type Logger struct {
	level   uint32
	tag     string
	backend *Backend
}

// Level returns the current level of the logger.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// SetLevel changes the level of the logger.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

// Backend returns the backend this logger writes to.
func (l *Logger) Backend() *Backend {
	return l.backend
}

// Tracef formats and writes a message at the trace level.
func (l *Logger) Tracef(format string, args ...interface{}) { l.writef(LevelTrace, format, args...) }

// Debugf formats and writes a message at the debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.writef(LevelDebug, format, args...) }

// Infof formats and writes a message at the info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.writef(LevelInfo, format, args...) }

// Warnf formats and writes a message at the warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.writef(LevelWarn, format, args...) }

// Errorf formats and writes a message at the error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.writef(LevelError, format, args...) }

// Criticalf formats and writes a message at the critical level.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.writef(LevelCritical, format, args...)
}

// Trace writes its arguments at the trace level.
func (l *Logger) Trace(args ...interface{}) { l.write(LevelTrace, args...) }

// Debug writes its arguments at the debug level.
func (l *Logger) Debug(args ...interface{}) { l.write(LevelDebug, args...) }

// Info writes its arguments at the info level.
func (l *Logger) Info(args ...interface{}) { l.write(LevelInfo, args...) }

// Warn writes its arguments at the warn level.
func (l *Logger) Warn(args ...interface{}) { l.write(LevelWarn, args...) }

// Error writes its arguments at the error level.
func (l *Logger) Error(args ...interface{}) { l.write(LevelError, args...) }

// Critical writes its arguments at the critical level.
func (l *Logger) Critical(args ...interface{}) { l.write(LevelCritical, args...) }

func (l *Logger) writef(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.backend.write(logEntry{log: l.format(level, fmt.Sprintf(format, args...)), level: level})
}

func (l *Logger) write(level Level, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.backend.write(logEntry{log: l.format(level, fmt.Sprint(args...)), level: level})
}

// format renders "2006-01-02 15:04:05.000 [LVL] TAG: message" with an
// optional callsite.
func (l *Logger) format(level Level, message string) []byte {
	var buf bytes.Buffer
	buf.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(level.String())
	buf.WriteString("] ")
	buf.WriteString(l.tag)
	if callsiteFlags != 0 {
		buf.WriteByte(' ')
		buf.WriteString(callsite(4))
	}
	buf.WriteString(": ")
	buf.WriteString(message)
	if !strings.HasSuffix(message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func callsite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???:0"
	}
	if callsiteFlags&logFlagShortFile != 0 {
		file = file[strings.LastIndex(file, "/")+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
