package whiteflagmanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxo"
)

// classifyBlock classifies a single block and, if its transaction is
// included, applies the transaction to mutationSet
func (wfm *whiteFlagManager) classifyBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	block *externalapi.DomainBlock, milestoneIndex externalapi.MilestoneIndex,
	mutationSet *utxo.MutationSet) (*externalapi.BlockClassificationEntry, error) {

	transaction, ok := block.Transaction()
	if !ok {
		return &externalapi.BlockClassificationEntry{
			BlockHash:      blockHash,
			Classification: externalapi.ClassificationNotApplicable,
		}, nil
	}

	reason, err := wfm.checkTransaction(stagingArea, transaction, mutationSet)
	if err != nil {
		return nil, err
	}
	if reason != externalapi.ConflictNone {
		log.Debugf("Ignoring the transaction of block %s: %s", blockHash, reason)
		return &externalapi.BlockClassificationEntry{
			BlockHash:      blockHash,
			Classification: externalapi.ClassificationConflictIgnored,
			ConflictReason: reason,
		}, nil
	}

	for _, input := range transaction.Inputs {
		mutationSet.Consume(&input.PreviousOutpoint)
	}
	for i, outpoint := range consensushashing.OutputOutpoints(transaction) {
		output := transaction.Outputs[i]
		mutationSet.Create(outpoint, utxo.NewUTXOEntry(output.Amount, &output.Address, milestoneIndex))
	}

	return &externalapi.BlockClassificationEntry{
		BlockHash:      blockHash,
		Classification: externalapi.ClassificationIncluded,
	}, nil
}

// checkTransaction returns ConflictNone if transaction can be applied on
// top of mutationSet, or the reason it can't
func (wfm *whiteFlagManager) checkTransaction(stagingArea *model.StagingArea,
	transaction *externalapi.DomainTransaction,
	mutationSet *utxo.MutationSet) (externalapi.ConflictReason, error) {

	err := wfm.transactionValidator.ValidateTransactionInIsolation(transaction)
	if err != nil {
		return conflictReasonForError(err)
	}

	spentEntries := make([]externalapi.UTXOEntry, len(transaction.Inputs))
	for i, input := range transaction.Inputs {
		entry, err := wfm.resolveInput(stagingArea, &input.PreviousOutpoint, mutationSet)
		if err != nil {
			return conflictReasonForError(err)
		}
		spentEntries[i] = entry
	}

	err = wfm.transactionValidator.ValidateTransactionAmounts(transaction, spentEntries)
	if err != nil {
		return conflictReasonForError(err)
	}
	err = wfm.transactionValidator.ValidateTransactionSignatures(transaction, spentEntries)
	if err != nil {
		return conflictReasonForError(err)
	}
	return externalapi.ConflictNone, nil
}

// resolveInput looks outpoint up in the outputs created earlier in this
// walk and then in the ledger. It returns ErrSpentTxOut or ErrMissingTxOut
// if outpoint can't be spent.
func (wfm *whiteFlagManager) resolveInput(stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint,
	mutationSet *utxo.MutationSet) (externalapi.UTXOEntry, error) {

	if mutationSet.IsConsumed(outpoint) {
		return nil, ruleerrors.NewErrSpentTxOut([]*externalapi.DomainOutpoint{outpoint})
	}
	if entry, ok := mutationSet.CreatedEntry(outpoint); ok {
		return entry, nil
	}

	entry, err := wfm.utxoStore.UTXOEntry(wfm.databaseContext, stagingArea, outpoint)
	if err == nil {
		return entry, nil
	}
	if !database.IsNotFoundError(err) {
		return nil, err
	}

	wasSpent, err := wfm.utxoStore.HasSpentOutput(wfm.databaseContext, stagingArea, outpoint)
	if err != nil {
		return nil, err
	}
	if wasSpent {
		return nil, ruleerrors.NewErrSpentTxOut([]*externalapi.DomainOutpoint{outpoint})
	}
	return nil, ruleerrors.NewErrMissingTxOut([]*externalapi.DomainOutpoint{outpoint})
}

// conflictReasonForError maps a validation rule error to the matching
// conflict reason. Any other error is returned as is.
func conflictReasonForError(err error) (externalapi.ConflictReason, error) {
	switch {
	case errors.As(err, &ruleerrors.ErrSpentTxOut{}):
		return externalapi.ConflictInputAlreadySpent, nil
	case errors.As(err, &ruleerrors.ErrMissingTxOut{}):
		return externalapi.ConflictInputNotFound, nil
	case errors.Is(err, ruleerrors.ErrAmountMismatch):
		return externalapi.ConflictAmountMismatch, nil
	case errors.Is(err, ruleerrors.ErrInvalidSignature):
		return externalapi.ConflictInvalidSignature, nil
	case ruleerrors.IsRuleError(err):
		return externalapi.ConflictSemanticallyInvalid, nil
	}
	return 0, err
}
