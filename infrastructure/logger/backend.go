package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const (
	defaultThresholdKB = 100 * 1000
	defaultMaxRolls    = 8
)

type logEntry struct {
	log   []byte
	level Level
}

type levelWriter struct {
	io.WriteCloser
	minimumLevel Level
}

// Backend serializes the output of all the subsystem loggers created from it
// into a set of writers, each of which receives the entries at or above its
// own level.
type Backend struct {
	isRunning uint32
	writers   []levelWriter
	entries   chan logEntry
	done      sync.WaitGroup
}

// NewBackend creates a new logger backend. Use Run to start writing.
func NewBackend() *Backend {
	return &Backend{entries: make(chan logEntry)}
}

// AddLogFile adds a rotated log file that receives every entry at or above
// minimumLevel. The file's directory is created if needed.
func (b *Backend) AddLogFile(logFile string, minimumLevel Level) error {
	if b.IsRunning() {
		return errors.New("cannot add a log file to a running backend")
	}
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	fileRotator, err := rotator.New(logFile, defaultThresholdKB, false, defaultMaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: fileRotator, minimumLevel: minimumLevel})
	return nil
}

// AddLogWriter adds an arbitrary writer that receives every entry at or
// above minimumLevel.
func (b *Backend) AddLogWriter(writer io.WriteCloser, minimumLevel Level) error {
	if b.IsRunning() {
		return errors.New("cannot add a log writer to a running backend")
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: writer, minimumLevel: minimumLevel})
	return nil
}

// Run starts the goroutine that drains log entries into the writers.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 0, 1) {
		return errors.New("the logger backend is already running")
	}
	b.done.Add(1)
	go func() {
		defer b.done.Done()
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "Fatal error in the logger backend: %+v\n%s\n", err, debug.Stack())
			}
		}()
		for entry := range b.entries {
			for _, writer := range b.writers {
				if entry.level >= writer.minimumLevel {
					_, _ = writer.Write(entry.log)
				}
			}
		}
	}()
	return nil
}

// IsRunning returns whether Run has been called.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.isRunning) != 0
}

// Close flushes pending entries and closes all writers.
func (b *Backend) Close() {
	if !atomic.CompareAndSwapUint32(&b.isRunning, 1, 0) {
		return
	}
	close(b.entries)
	b.done.Wait()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a new subsystem logger writing to b. The logger is off
// until its level is set.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{level: uint32(LevelOff), tag: subsystemTag, backend: b}
}

func (b *Backend) write(entry logEntry) {
	if !b.IsRunning() {
		return
	}
	defer func() {
		// Writing to a backend closed concurrently is dropped.
		_ = recover()
	}()
	b.entries <- entry
}
