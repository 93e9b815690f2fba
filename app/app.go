package app

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/utils/addressencoding"
	"github.com/tanglenet/tangled/infrastructure/config"
	infrastructuredatabase "github.com/tanglenet/tangled/infrastructure/db/database"
	"github.com/tanglenet/tangled/infrastructure/db/database/ldb"
	"github.com/tanglenet/tangled/infrastructure/db/database/memdb"
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/infrastructure/os/execenv"
	"github.com/tanglenet/tangled/infrastructure/os/signal"
	"github.com/tanglenet/tangled/util/panics"
	"github.com/tanglenet/tangled/version"
)

const gcPercent = 20

type tangledApp struct {
	cfg *config.Config
}

// StartApp starts the tangled app, and blocks until it finishes running
func StartApp() error {
	execenv.Initialize(gcPercent)

	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "MAIN", nil)

	app := &tangledApp{cfg: cfg}
	return app.main(nil)
}

func (app *tangledApp) main(startedChan chan<- struct{}) error {
	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the component manager.
	interrupt := signal.InterruptListener()
	defer log.Info("Shutdown complete")

	// Show version at startup.
	log.Infof("Version %s", version.Version())
	log.Infof("Network %s", app.cfg.NetParams().Name)
	genesisAddress, err := addressencoding.Encode(&app.cfg.NetParams().GenesisAddress, app.cfg.NetParams().Bech32Prefix)
	if err != nil {
		return err
	}
	log.Debugf("Genesis address %s", genesisAddress)

	// Return now if an interrupt signal was triggered.
	if signal.InterruptRequested(interrupt) {
		return nil
	}

	databaseContext, isNewDatabase, err := openDB(app.cfg)
	if err != nil {
		log.Errorf("Loading database failed: %+v", err)
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	snapshotFile := app.cfg.Snapshot
	if snapshotFile != "" && !isNewDatabase {
		log.Warnf("Ignoring snapshot %s: the database in %s is already initialized", snapshotFile, app.cfg.DataDir)
		snapshotFile = ""
	}

	componentManager, err := NewComponentManager(app.cfg, databaseContext, snapshotFile)
	if err != nil {
		log.Errorf("Unable to start tangled: %+v", err)
		return err
	}

	if isNewDatabase && app.cfg.DBType == config.DBTypeLevelDB {
		err := createDatabaseVersionFile(app.cfg.DataDir)
		if err != nil {
			log.Errorf("Unable to write the database version file: %+v", err)
			return err
		}
	}

	defer func() {
		log.Infof("Gracefully shutting down tangled...")
		componentManager.Stop()
		log.Infof("Tangled shutdown complete")
	}()

	componentManager.Start()

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	select {
	case <-interrupt:
		return nil
	case <-componentManager.Halted():
		return componentManager.Err()
	}
}

// openDB opens the database backend selected by cfg, and reports whether
// it holds no tangle yet.
func openDB(cfg *config.Config) (db infrastructuredatabase.Database, isNewDatabase bool, err error) {
	if cfg.DBType == config.DBTypeMemory {
		log.Warnf("Using an in-memory database. Nothing will survive a restart")
		return memdb.NewMemDB(), true, nil
	}

	err = os.MkdirAll(cfg.DataDir, 0700)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	doesVersionFileExist, err := checkDatabaseVersion(cfg.DataDir)
	if err != nil {
		return nil, false, err
	}

	log.Infof("Loading database from '%s'", cfg.DataDir)
	db, err = ldb.NewLevelDB(cfg.DataDir, cfg.LevelDBCacheSizeMiB)
	if err != nil {
		return nil, false, err
	}
	return db, !doesVersionFileExist, nil
}
