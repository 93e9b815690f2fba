package consensus

import (
	"sync"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockconfirmationstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockrelationstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockstatusstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/milestonediffstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/milestonestore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/pruningstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/solidentrypointstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/unreferencedblockstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/utxostore"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/processes/blockprocessor"
	"github.com/tanglenet/tangled/domain/consensus/processes/dagtraversalmanager"
	"github.com/tanglenet/tangled/domain/consensus/processes/ledgermanager"
	"github.com/tanglenet/tangled/domain/consensus/processes/pruningmanager"
	"github.com/tanglenet/tangled/domain/consensus/processes/snapshotmanager"
	"github.com/tanglenet/tangled/domain/consensus/processes/transactionvalidator"
	"github.com/tanglenet/tangled/domain/consensus/processes/whiteflagmanager"
	"github.com/tanglenet/tangled/domain/consensus/utils/schnorr"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxo"
	"github.com/tanglenet/tangled/domain/dagconfig"
	infrastructuredatabase "github.com/tanglenet/tangled/infrastructure/db/database"
	"github.com/tanglenet/tangled/infrastructure/db/database/memdb"
	"github.com/tanglenet/tangled/util/mstime"
	"github.com/tanglenet/tangled/util/staging"
)

const (
	defaultBlockCacheSize = 10_000
	defaultUTXOCacheSize  = 10_000
)

// Factory instantiates new Consensuses
type Factory interface {
	NewConsensus(config *Config, db infrastructuredatabase.Database,
		consensusEventsChan chan externalapi.ConsensusEvent) (externalapi.Consensus, error)
	NewTestConsensus(config *Config, testName string) (tc TestConsensus, teardown func(), err error)

	SetTestTimeSource(timeSource func() int64)
	SetTestSignatureVerifier(signatureVerifier model.SignatureVerifier)
}

type factory struct {
	timeSource        func() int64
	signatureVerifier model.SignatureVerifier
}

// NewFactory creates a new Consensus factory
func NewFactory() Factory {
	return &factory{
		timeSource:        mstime.NowUnixMilli,
		signatureVerifier: schnorr.NewVerifier(),
	}
}

// NewConsensus instantiates a new Consensus. Events are sent on
// consensusEventsChan, which may be nil.
func (f *factory) NewConsensus(config *Config, db infrastructuredatabase.Database,
	consensusEventsChan chan externalapi.ConsensusEvent) (externalapi.Consensus, error) {

	c, err := f.newConsensus(config, db, consensusEventsChan)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *factory) newConsensus(config *Config, db infrastructuredatabase.Database,
	consensusEventsChan chan externalapi.ConsensusEvent) (*consensus, error) {

	dbManager := database.New(db)

	// Data Structures
	blockStore, err := blockstore.New(dbManager, defaultBlockCacheSize, false)
	if err != nil {
		return nil, err
	}
	blockStatusStore := blockstatusstore.New(defaultBlockCacheSize, false)
	blockRelationStore := blockrelationstore.New(defaultBlockCacheSize, false)
	blockConfirmationStore := blockconfirmationstore.New(defaultBlockCacheSize, false)
	solidEntryPointStore := solidentrypointstore.New(defaultBlockCacheSize, false)
	unreferencedBlockStore := unreferencedblockstore.New()
	milestoneStore := milestonestore.New()
	milestoneDiffStore := milestonediffstore.New()
	pruningStore := pruningstore.New()
	utxoStore := utxostore.New(defaultUTXOCacheSize, false)

	// Processes
	dagTraversalManager := dagtraversalmanager.New(
		dbManager,
		blockStore,
		blockRelationStore)
	transactionValidator := transactionvalidator.New(
		config.TotalSupply,
		f.signatureVerifier)
	ledgerManager := ledgermanager.New(
		dbManager,
		config.TotalSupply,
		config.EnableLedgerSanityCheck,
		utxoStore,
		milestoneDiffStore)
	blockProcessor := blockprocessor.New(
		&config.Params,
		dbManager,
		f.timeSource,
		blockStore,
		blockStatusStore,
		blockRelationStore,
		solidEntryPointStore,
		unreferencedBlockStore,
		milestoneStore,
		utxoStore)
	whiteFlagManager := whiteflagmanager.New(
		dbManager,
		dagTraversalManager,
		transactionValidator,
		ledgerManager,
		blockStore,
		blockStatusStore,
		blockConfirmationStore,
		solidEntryPointStore,
		unreferencedBlockStore,
		utxoStore)
	pruningManager := pruningmanager.New(
		dbManager,
		config.EnablePruning,
		externalapi.MilestoneIndex(config.PruningDepth),
		externalapi.MilestoneIndex(config.PruningMinMilestonesToKeep),
		dagTraversalManager,
		blockStore,
		blockStatusStore,
		blockRelationStore,
		blockConfirmationStore,
		solidEntryPointStore,
		unreferencedBlockStore,
		milestoneStore,
		milestoneDiffStore,
		pruningStore,
		utxoStore)
	snapshotManager := snapshotmanager.New(
		dbManager,
		&config.Params,
		ledgerManager,
		utxoStore,
		solidEntryPointStore,
		milestoneDiffStore,
		pruningStore)

	c := &consensus{
		tangleLock:       &sync.RWMutex{},
		confirmationLock: &sync.RWMutex{},

		databaseContext:     dbManager,
		consensusEventsChan: consensusEventsChan,

		blockProcessor:   blockProcessor,
		whiteFlagManager: whiteFlagManager,
		ledgerManager:    ledgerManager,
		pruningManager:   pruningManager,
		snapshotManager:  snapshotManager,

		blockStore:             blockStore,
		blockStatusStore:       blockStatusStore,
		blockRelationStore:     blockRelationStore,
		blockConfirmationStore: blockConfirmationStore,
		solidEntryPointStore:   solidEntryPointStore,
		milestoneStore:         milestoneStore,
		pruningStore:           pruningStore,
	}

	isInitialized, err := utxoStore.IsInitialized(dbManager)
	if err != nil {
		return nil, err
	}
	if !isInitialized && !config.SkipGenesis {
		err = initGenesis(config, dbManager, ledgerManager, solidEntryPointStore)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// initGenesis writes the ledger of a fresh network: the whole supply in a
// single output owned by the genesis address, and the genesis block as the
// only solid entry point
func initGenesis(config *Config, dbManager model.DBManager, ledgerManager model.LedgerManager,
	solidEntryPointStore model.SolidEntryPointStore) error {

	log.Infof("Initializing a fresh %s ledger", config.Name)

	stagingArea := model.NewStagingArea()
	genesisUTXO := &externalapi.OutpointAndUTXOEntryPair{
		Outpoint:  config.GenesisOutpoint(),
		UTXOEntry: utxo.NewUTXOEntry(config.TotalSupply, &config.GenesisAddress, 0),
	}
	err := ledgerManager.ImportLedgerState(stagingArea, 0, []*externalapi.OutpointAndUTXOEntryPair{genesisUTXO})
	if err != nil {
		return err
	}
	solidEntryPointStore.Stage(stagingArea, dagconfig.GenesisBlockHash(), &externalapi.SolidEntryPoint{})
	return staging.CommitAllChanges(dbManager, stagingArea)
}

// NewTestConsensus returns a consensus over an in-memory database. Events
// are buffered and can be read with TestConsensus.DrainEvents.
func (f *factory) NewTestConsensus(config *Config, testName string) (
	tc TestConsensus, teardown func(), err error) {

	db := memdb.NewMemDB()
	consensusEventsChan := make(chan externalapi.ConsensusEvent, testEventsBufferSize)
	c, err := f.newConsensus(config, db, consensusEventsChan)
	if err != nil {
		return nil, nil, err
	}

	tc = &testConsensus{
		consensus:           c,
		testName:            testName,
		config:              config,
		consensusEventsChan: consensusEventsChan,
	}
	teardown = func() {
		err := db.Close()
		if err != nil {
			log.Warnf("%s: closing the test database failed: %s", testName, err)
		}
	}
	return tc, teardown, nil
}

func (f *factory) SetTestTimeSource(timeSource func() int64) {
	f.timeSource = timeSource
}

func (f *factory) SetTestSignatureVerifier(signatureVerifier model.SignatureVerifier) {
	f.signatureVerifier = signatureVerifier
}
