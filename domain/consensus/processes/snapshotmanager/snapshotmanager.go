package snapshotmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

type snapshotManager struct {
	databaseContext model.DBManager
	dagParams       *dagconfig.Params

	ledgerManager model.LedgerManager

	utxoStore            model.UTXOStore
	solidEntryPointStore model.SolidEntryPointStore
	milestoneDiffStore   model.MilestoneDiffStore
	pruningStore         model.PruningStore
}

// New instantiates a new SnapshotManager
func New(databaseContext model.DBManager,
	dagParams *dagconfig.Params,
	ledgerManager model.LedgerManager,
	utxoStore model.UTXOStore,
	solidEntryPointStore model.SolidEntryPointStore,
	milestoneDiffStore model.MilestoneDiffStore,
	pruningStore model.PruningStore) model.SnapshotManager {

	return &snapshotManager{
		databaseContext: databaseContext,
		dagParams:       dagParams,

		ledgerManager: ledgerManager,

		utxoStore:            utxoStore,
		solidEntryPointStore: solidEntryPointStore,
		milestoneDiffStore:   milestoneDiffStore,
		pruningStore:         pruningStore,
	}
}
