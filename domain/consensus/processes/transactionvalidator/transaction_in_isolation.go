package transactionvalidator

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
)

const maxTransactionOutputs = math.MaxUint16 + 1

// ValidateTransactionInIsolation validates the parts of a transaction that
// don't depend on the ledger
func (v *transactionValidator) ValidateTransactionInIsolation(tx *externalapi.DomainTransaction) error {
	err := v.checkTransactionInputCount(tx)
	if err != nil {
		return err
	}
	err = v.checkTransactionOutputCount(tx)
	if err != nil {
		return err
	}
	err = v.checkDuplicateTransactionInputs(tx)
	if err != nil {
		return err
	}
	err = v.checkTransactionSignaturesPresent(tx)
	if err != nil {
		return err
	}
	return v.checkTransactionOutputAmounts(tx)
}

func (v *transactionValidator) checkTransactionInputCount(tx *externalapi.DomainTransaction) error {
	if len(tx.Inputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxInputs, "transaction has no inputs")
	}
	return nil
}

func (v *transactionValidator) checkTransactionOutputCount(tx *externalapi.DomainTransaction) error {
	if len(tx.Outputs) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoTxOutputs, "transaction has no outputs")
	}
	if len(tx.Outputs) > maxTransactionOutputs {
		return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "transaction has %d outputs, "+
			"more than the max of %d", len(tx.Outputs), maxTransactionOutputs)
	}
	return nil
}

func (v *transactionValidator) checkDuplicateTransactionInputs(tx *externalapi.DomainTransaction) error {
	existingTxOut := make(map[externalapi.DomainOutpoint]struct{})
	for _, txIn := range tx.Inputs {
		if _, exists := existingTxOut[txIn.PreviousOutpoint]; exists {
			return errors.Wrapf(ruleerrors.ErrDuplicateTxInputs, "transaction "+
				"contains duplicate inputs")
		}
		existingTxOut[txIn.PreviousOutpoint] = struct{}{}
	}
	return nil
}

func (v *transactionValidator) checkTransactionSignaturesPresent(tx *externalapi.DomainTransaction) error {
	for i, txIn := range tx.Inputs {
		if txIn.Signature == nil {
			return errors.Wrapf(ruleerrors.ErrMissingSignature, "input %d has no signature", i)
		}
	}
	return nil
}

// checkTransactionOutputAmounts ensures every output carries a positive
// amount and that no amount, nor their sum, exceeds the total supply
func (v *transactionValidator) checkTransactionOutputAmounts(tx *externalapi.DomainTransaction) error {
	totalAmount := uint64(0)
	for i, txOut := range tx.Outputs {
		if txOut.Amount == 0 {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "output %d has a zero amount", i)
		}
		if txOut.Amount > v.totalSupply {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "output %d amount of %d "+
				"is higher than the total supply of %d", i, txOut.Amount, v.totalSupply)
		}

		newTotalAmount := totalAmount + txOut.Amount
		if newTotalAmount < totalAmount || newTotalAmount > v.totalSupply {
			return errors.Wrapf(ruleerrors.ErrBadTxOutValue, "total amount of all "+
				"transaction outputs exceeds the total supply of %d", v.totalSupply)
		}
		totalAmount = newTotalAmount
	}
	return nil
}
