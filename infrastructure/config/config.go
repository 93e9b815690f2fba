package config

import (
	_ "embed" // sample-tangled.conf
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/version"
)

const (
	defaultConfigFilename      = "tangled.conf"
	defaultDataDirname         = "data"
	defaultLogLevel            = "info"
	defaultLogDirname          = "logs"
	defaultLogFilename         = "tangled.log"
	defaultErrLogFilename      = "tangled_err.log"
	defaultDBType              = DBTypeLevelDB
	defaultLevelDBCacheSizeMiB = 256
	defaultPruningMinimum      = 10
	defaultPruningInterval     = time.Minute
	defaultEventBufferSize     = 1000
	defaultIngestionBufferSize = 1000
)

// The supported database backends
const (
	DBTypeLevelDB = "leveldb"
	DBTypeMemory  = "memory"
)

var (
	// DefaultAppDir is the default home directory for tangled.
	DefaultAppDir = btcutil.AppDataDir("tangled", false)

	defaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultAppDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultAppDir, defaultLogDirname)
)

//go:embed sample-tangled.conf
var sampleConfig string

// Flags defines the configuration options for tangled.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion          bool          `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile           string        `short:"C" long:"configfile" description:"Path to configuration file"`
	AppDir               string        `short:"b" long:"appdir" description:"Directory to store data"`
	DataDir              string        `long:"datadir" description:"Directory to store the database (default: <appdir>/data)"`
	LogDir               string        `long:"logdir" description:"Directory to log output."`
	DBType               string        `long:"dbtype" description:"Database backend {leveldb, memory}"`
	LevelDBCacheSizeMiB  int           `long:"leveldb-cache" description:"Size of the leveldb block cache in MiB"`
	LogLevel             string        `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Snapshot             string        `long:"snapshot" description:"Import the given full snapshot into an empty database on start up"`
	NoPruning            bool          `long:"nopruning" description:"Disable pruning of confirmed history"`
	PruningDepth         uint32        `long:"pruning-depth" description:"Number of milestones to keep below the ledger index (default: the network's pruning depth)"`
	PruningMinMilestones uint32        `long:"pruning-min-milestones" description:"Refuse to prune with a pruning depth below this number of milestones"`
	PruningInterval      time.Duration `long:"pruning-interval" description:"How often a pruning cycle runs. Valid time units are {s, m, h}"`
	SanityCheckLedger    bool          `long:"sanity-check-ledger" description:"Recompute the supply from the whole ledger on every milestone"`
	EventBufferSize      int           `long:"event-buffer" description:"Number of consensus events buffered before consensus waits for the event dispatcher"`
	IngestionBufferSize  int           `long:"ingestion-buffer" description:"Number of submitted blocks buffered before SubmitBlock blocks"`
	MetricsListen        string        `long:"metrics-listen" description:"Serve prometheus metrics on the given interface/port"`
	NetworkFlags
}

// Config defines the configuration options for tangled.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:           defaultConfigFile,
		AppDir:               DefaultAppDir,
		LogLevel:             defaultLogLevel,
		DBType:               defaultDBType,
		LevelDBCacheSizeMiB:  defaultLevelDBCacheSizeMiB,
		PruningMinMilestones: defaultPruningMinimum,
		PruningInterval:      defaultPruningInterval,
		EventBufferSize:      defaultEventBufferSize,
		IngestionBufferSize:  defaultIngestionBufferSize,
	}
}

// DefaultConfig returns the default tangled configuration for the network
// described by networkFlags. Nothing is read from the command line or from
// disk.
func DefaultConfig(networkFlags NetworkFlags) (*Config, error) {
	cfgFlags := defaultFlags()
	cfgFlags.NetworkFlags = networkFlags
	cfg := &Config{Flags: cfgFlags}
	err := cfg.ResolveNetwork(flags.NewParser(cfgFlags, flags.Default))
	if err != nil {
		return nil, err
	}
	cfg.PruningDepth = cfg.NetParams().DefaultPruningDepth
	cfg.DataDir = filepath.Join(defaultDataDir, cfg.NetParams().Name)
	cfg.LogDir = filepath.Join(defaultLogDir, cfg.NetParams().Name)
	return cfg, nil
}

// LoadConfig initializes and parses the config using a config file and
// command line options
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in tangled functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options. Command line options always take precedence.
func loadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file, app dir or the version flag was specified. Any errors aside
	// from the help message error can be ignored here since they will be
	// caught by the final parse below.
	preCfg := *cfgFlags
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// A custom app dir moves the default config file along with it
	appDir := cleanAndExpandPath(preCfg.AppDir)
	configFile := preCfg.ConfigFile
	if configFile == defaultConfigFile && appDir != DefaultAppDir {
		configFile = filepath.Join(appDir, defaultConfigFilename)
	}

	err = os.MkdirAll(appDir, 0700)
	if err != nil {
		// Show a nicer error message if it's because a symlink is
		// linked to a directory that does not exist (probably because
		// it's not mounted).
		var pathErr *os.PathError
		if ok := errors.As(err, &pathErr); ok && os.IsExist(err) {
			if link, linkErr := os.Readlink(pathErr.Path); linkErr == nil {
				err = errors.Errorf("is symlink %s -> %s mounted?", pathErr.Path, link)
			}
		}
		err := errors.Errorf("loadConfig: failed to create the app directory: %s", err)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		err := createDefaultConfigFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %s\n", err)
		}
	}

	parser := flags.NewParser(cfgFlags, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(configFile)
	if err != nil {
		var pathErr *os.PathError
		if ok := errors.As(err, &pathErr); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	cfg.AppDir = appDir
	cfg.ConfigFile = configFile

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	if cfg.DBType != DBTypeLevelDB && cfg.DBType != DBTypeMemory {
		err := errors.Errorf("loadConfig: unknown database type %q, expected %s or %s",
			cfg.DBType, DBTypeLevelDB, DBTypeMemory)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}
	if cfg.Snapshot != "" {
		cfg.Snapshot = cleanAndExpandPath(cfg.Snapshot)
	}

	if cfg.PruningDepth == 0 {
		cfg.PruningDepth = cfg.NetParams().DefaultPruningDepth
	}
	if cfg.PruningInterval <= 0 {
		err := errors.Errorf("loadConfig: the pruning interval must be positive, got %s", cfg.PruningInterval)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}
	if cfg.EventBufferSize < 0 || cfg.IngestionBufferSize < 0 {
		err := errors.Errorf("loadConfig: buffer sizes cannot be negative")
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.LogLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}
	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		err := errors.Errorf("loadConfig: %s", err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, err
	}

	// Namespace the data and log directories per network
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(cfg.AppDir, defaultDataDirname)
	}
	cfg.DataDir = filepath.Join(cleanAndExpandPath(cfg.DataDir), cfg.NetParams().Name)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = filepath.Join(cleanAndExpandPath(cfg.LogDir), cfg.NetParams().Name)

	return cfg, nil
}

// LogFile returns the path of the main log file
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, defaultLogFilename)
}

// ErrLogFile returns the path of the error log file
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, defaultErrLogFilename)
}

// createDefaultConfigFile creates a config file at the given path with the
// sample configuration
func createDefaultConfigFile(destinationPath string) error {
	err := os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destinationPath, []byte(sampleConfig), 0600)
}
