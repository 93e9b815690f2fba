package ledgermanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/infrastructure/logger"
)

// ApplyMutations stages the mutations of milestone `index` on top of the
// ledger. Nothing reaches the database unless the staging area is
// committed, so a failed apply leaves the ledger untouched.
func (lm *ledgerManager) ApplyMutations(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	mutations *externalapi.UTXOMutations) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ApplyMutations")
	defer onEnd()

	ledgerIndex, err := lm.utxoStore.LedgerIndex(lm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if index != ledgerIndex+1 {
		return errors.Wrapf(ruleerrors.ErrOutOfSequence, "cannot apply milestone %d on top of "+
			"ledger index %d", index, ledgerIndex)
	}

	for _, outpoint := range mutations.Consumed {
		entry, err := lm.utxoStore.UTXOEntry(lm.databaseContext, stagingArea, outpoint)
		if database.IsNotFoundError(err) {
			return errors.Wrapf(ruleerrors.ErrLedgerInconsistency, "milestone %d consumes %s "+
				"which is not unspent", index, outpoint)
		}
		if err != nil {
			return err
		}
		lm.utxoStore.StageRemoveUTXO(stagingArea, outpoint, entry)
		lm.utxoStore.StageSpentOutput(stagingArea, &externalapi.SpentOutput{
			Outpoint:     outpoint,
			UTXOEntry:    entry,
			SpentAtIndex: index,
		})
	}

	for _, pair := range mutations.Created {
		exists, err := lm.utxoStore.HasUTXOEntry(lm.databaseContext, stagingArea, pair.Outpoint)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(ruleerrors.ErrLedgerInconsistency, "milestone %d creates %s "+
				"which is already unspent", index, pair.Outpoint)
		}
		lm.utxoStore.StageAddUTXO(stagingArea, pair.Outpoint, pair.UTXOEntry)
	}

	lm.milestoneDiffStore.Stage(stagingArea, index, mutations)
	lm.utxoStore.StageLedgerIndex(stagingArea, index)

	err = lm.checkSupply(stagingArea)
	if err != nil {
		return err
	}

	log.Debugf("Staged milestone %d: %d outputs consumed, %d outputs created",
		index, len(mutations.Consumed), len(mutations.Created))
	return nil
}

// ImportLedgerState stages a complete ledger at `index` into an empty UTXO
// store
func (lm *ledgerManager) ImportLedgerState(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	utxos []*externalapi.OutpointAndUTXOEntryPair) error {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ImportLedgerState")
	defer onEnd()

	for _, pair := range utxos {
		lm.utxoStore.StageAddUTXO(stagingArea, pair.Outpoint, pair.UTXOEntry)
	}
	lm.utxoStore.StageLedgerIndex(stagingArea, index)

	err := lm.checkSupply(stagingArea)
	if err != nil {
		return err
	}

	log.Infof("Staged a ledger of %d unspent outputs at index %d", len(utxos), index)
	return nil
}

func (lm *ledgerManager) checkSupply(stagingArea *model.StagingArea) error {
	supply, err := lm.utxoStore.Supply(lm.databaseContext, stagingArea)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrSupplyInvariantViolation, "%s", err)
	}
	if supply != lm.totalSupply {
		return errors.Wrapf(ruleerrors.ErrSupplyInvariantViolation, "the unspent outputs hold %d "+
			"instead of the total supply of %d", supply, lm.totalSupply)
	}

	if !lm.enableLedgerSanityCheck {
		return nil
	}
	calculatedSupply, err := lm.utxoStore.CalculateSupply(lm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if calculatedSupply != lm.totalSupply {
		return errors.Wrapf(ruleerrors.ErrSupplyInvariantViolation, "a full scan of the unspent "+
			"outputs sums up to %d instead of the total supply of %d", calculatedSupply, lm.totalSupply)
	}
	return nil
}
