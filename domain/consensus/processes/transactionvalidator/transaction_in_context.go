package transactionvalidator

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
)

// ValidateTransactionAmounts ensures the entries spent by tx sum up to
// its outputs. spentEntries[i] is the entry spent by tx.Inputs[i].
func (v *transactionValidator) ValidateTransactionAmounts(tx *externalapi.DomainTransaction,
	spentEntries []externalapi.UTXOEntry) error {

	if len(spentEntries) != len(tx.Inputs) {
		return errors.Errorf("got %d spent entries for %d inputs", len(spentEntries), len(tx.Inputs))
	}

	totalIn := uint64(0)
	for _, entry := range spentEntries {
		newTotalIn := totalIn + entry.Amount()
		if newTotalIn < totalIn {
			return errors.Wrapf(ruleerrors.ErrAmountMismatch, "total amount of all inputs overflows")
		}
		totalIn = newTotalIn
	}

	totalOut := uint64(0)
	for _, output := range tx.Outputs {
		newTotalOut := totalOut + output.Amount
		if newTotalOut < totalOut {
			return errors.Wrapf(ruleerrors.ErrAmountMismatch, "total amount of all outputs overflows")
		}
		totalOut = newTotalOut
	}

	if totalIn != totalOut {
		return errors.Wrapf(ruleerrors.ErrAmountMismatch, "inputs sum to %d while outputs sum to %d",
			totalIn, totalOut)
	}
	return nil
}

// ValidateTransactionSignatures ensures every input is signed by the owner
// of the entry it spends
func (v *transactionValidator) ValidateTransactionSignatures(tx *externalapi.DomainTransaction,
	spentEntries []externalapi.UTXOEntry) error {

	if len(spentEntries) != len(tx.Inputs) {
		return errors.Errorf("got %d spent entries for %d inputs", len(spentEntries), len(tx.Inputs))
	}

	signingHash := consensushashing.TransactionSigningHash(tx)
	for i, input := range tx.Inputs {
		if !v.signatureVerifier.Verify(signingHash.ByteSlice(), input.Signature, spentEntries[i].Address()) {
			return errors.Wrapf(ruleerrors.ErrInvalidSignature, "input %d of transaction %s",
				i, consensushashing.TransactionID(tx))
		}
	}
	return nil
}
