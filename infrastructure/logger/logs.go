package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	logFlagLongFile uint32 = 1 << iota
	logFlagShortFile
)

// callsiteFlags is read once from the LOGFLAGS environment variable
// ("longfile" or "shortfile").
var callsiteFlags = func() (flags uint32) {
	for _, flag := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch flag {
		case "longfile":
			flags |= logFlagLongFile
		case "shortfile":
			flags |= logFlagShortFile
		}
	}
	return flags
}()

// BackendLog is the logging backend used to create all subsystem loggers.
var BackendLog = NewBackend()

var (
	subsystemLoggers     = make(map[string]*Logger)
	subsystemLoggersLock sync.Mutex
)

// RegisterSubSystem returns the logger of the given subsystem tag, creating
// it on first use.
func RegisterSubSystem(subsystem string) *Logger {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	logger, exists := subsystemLoggers[subsystem]
	if !exists {
		logger = BackendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// InitLog attaches the log file, the error log file and stdout to the
// backend and starts it.
func InitLog(logFile, errLogFile string) {
	err := BackendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %+v\n", logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %+v\n", errLogFile, LevelWarn, err)
		os.Exit(1)
	}
	err = BackendLog.AddLogWriter(os.Stdout, LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the log writers: %+v\n", err)
		os.Exit(1)
	}
	err = BackendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %+v\n", err)
		os.Exit(1)
	}
}

// SupportedSubsystems returns a sorted slice of the registered subsystems.
func SupportedSubsystems() []string {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsystem := range subsystemLoggers {
		subsystems = append(subsystems, subsystem)
	}
	sort.Strings(subsystems)
	return subsystems
}

// SetLogLevel sets the level of a single subsystem. Unknown subsystems are
// ignored.
func SetLogLevel(subsystem string, level Level) {
	subsystemLoggersLock.Lock()
	defer subsystemLoggersLock.Unlock()

	logger, ok := subsystemLoggers[subsystem]
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels sets every registered subsystem to the same level.
func SetLogLevels(level Level) {
	for _, subsystem := range SupportedSubsystems() {
		SetLogLevel(subsystem, level)
	}
}

// ParseAndSetLogLevels accepts either a single level ("debug") which is
// applied to all subsystems, or a comma separated list of
// subsystem=level pairs ("WFLG=trace,PRUN=debug").
func ParseAndSetLogLevels(logLevel string) error {
	if !strings.Contains(logLevel, "=") && !strings.Contains(logLevel, ",") {
		level, ok := LevelFromString(logLevel)
		if !ok {
			return errors.Errorf("the specified log level %s is invalid", logLevel)
		}
		SetLogLevels(level)
		return nil
	}

	supported := make(map[string]struct{})
	for _, subsystem := range SupportedSubsystems() {
		supported[subsystem] = struct{}{}
	}
	for _, pair := range strings.Split(logLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return errors.Errorf("the specified log level pair %s is malformed, "+
				"expected the form subsystem=level", pair)
		}
		subsystem, levelString := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if _, ok := supported[subsystem]; !ok {
			return errors.Errorf("the specified subsystem %s is invalid, supported subsystems: %s",
				subsystem, strings.Join(SupportedSubsystems(), ", "))
		}
		level, ok := LevelFromString(levelString)
		if !ok {
			return errors.Errorf("the specified log level %s is invalid", levelString)
		}
		SetLogLevel(subsystem, level)
	}
	return nil
}
