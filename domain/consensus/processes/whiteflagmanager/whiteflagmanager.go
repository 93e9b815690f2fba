package whiteflagmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
)

// whiteFlagManager orders the blocks a milestone newly references,
// classifies them against the ledger and confirms them
type whiteFlagManager struct {
	databaseContext model.DBReader

	dagTraversalManager  model.DAGTraversalManager
	transactionValidator model.TransactionValidator
	ledgerManager        model.LedgerManager

	blockStore             model.BlockStore
	blockStatusStore       model.BlockStatusStore
	blockConfirmationStore model.BlockConfirmationStore
	solidEntryPointStore   model.SolidEntryPointStore
	unreferencedBlockStore model.UnreferencedBlockStore
	utxoStore              model.UTXOStore
}

// New instantiates a new WhiteFlagManager
func New(databaseContext model.DBReader,
	dagTraversalManager model.DAGTraversalManager,
	transactionValidator model.TransactionValidator,
	ledgerManager model.LedgerManager,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	blockConfirmationStore model.BlockConfirmationStore,
	solidEntryPointStore model.SolidEntryPointStore,
	unreferencedBlockStore model.UnreferencedBlockStore,
	utxoStore model.UTXOStore) model.WhiteFlagManager {

	return &whiteFlagManager{
		databaseContext: databaseContext,

		dagTraversalManager:  dagTraversalManager,
		transactionValidator: transactionValidator,
		ledgerManager:        ledgerManager,

		blockStore:             blockStore,
		blockStatusStore:       blockStatusStore,
		blockConfirmationStore: blockConfirmationStore,
		solidEntryPointStore:   solidEntryPointStore,
		unreferencedBlockStore: unreferencedBlockStore,
		utxoStore:              utxoStore,
	}
}
