package ledgermanager

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type ledgerManager struct {
	databaseContext         model.DBReader
	totalSupply             uint64
	enableLedgerSanityCheck bool

	utxoStore          model.UTXOStore
	milestoneDiffStore model.MilestoneDiffStore
}

// New instantiates a new LedgerManager. With enableLedgerSanityCheck every
// apply also recomputes the supply from the whole unspent output set.
func New(databaseContext model.DBReader,
	totalSupply uint64,
	enableLedgerSanityCheck bool,
	utxoStore model.UTXOStore,
	milestoneDiffStore model.MilestoneDiffStore) model.LedgerManager {

	return &ledgerManager{
		databaseContext:         databaseContext,
		totalSupply:             totalSupply,
		enableLedgerSanityCheck: enableLedgerSanityCheck,

		utxoStore:          utxoStore,
		milestoneDiffStore: milestoneDiffStore,
	}
}

func (lm *ledgerManager) LedgerIndex(stagingArea *model.StagingArea) (externalapi.MilestoneIndex, error) {
	return lm.utxoStore.LedgerIndex(lm.databaseContext, stagingArea)
}

func (lm *ledgerManager) UTXOEntry(stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {

	entry, err := lm.utxoStore.UTXOEntry(lm.databaseContext, stagingArea, outpoint)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (lm *ledgerManager) SpentOutput(stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (*externalapi.SpentOutput, bool, error) {

	spentOutput, err := lm.utxoStore.SpentOutput(lm.databaseContext, stagingArea, outpoint)
	if database.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return spentOutput, true, nil
}

func (lm *ledgerManager) LedgerStateHash(stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	return lm.utxoStore.LedgerStateHash(lm.databaseContext, stagingArea)
}
