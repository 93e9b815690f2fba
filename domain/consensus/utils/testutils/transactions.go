package testutils

import (
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/domain/consensus/utils/schnorr"
)

// GenerateKey returns a new key and the address it owns
func GenerateKey(t *testing.T) (*secp256k1.SchnorrKeyPair, *externalapi.DomainAddress) {
	keyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("GenerateSchnorrKeyPair: %s", err)
	}
	address, err := schnorr.Address(keyPair)
	if err != nil {
		t.Fatalf("Address: %s", err)
	}
	return keyPair, address
}

// Output returns a transaction output paying amount to address
func Output(amount uint64, address *externalapi.DomainAddress) *externalapi.DomainTransactionOutput {
	return &externalapi.DomainTransactionOutput{Amount: amount, Address: *address}
}

// SignedTransaction returns a transaction spending inputs into outputs,
// with every input signed by keyPair
func SignedTransaction(t *testing.T, keyPair *secp256k1.SchnorrKeyPair, inputs []*externalapi.DomainOutpoint,
	outputs ...*externalapi.DomainTransactionOutput) *externalapi.DomainTransaction {

	tx := &externalapi.DomainTransaction{
		Inputs:  make([]*externalapi.DomainTransactionInput, len(inputs)),
		Outputs: outputs,
	}
	for i, input := range inputs {
		tx.Inputs[i] = &externalapi.DomainTransactionInput{PreviousOutpoint: *input}
	}
	err := schnorr.SignTransaction(keyPair, tx)
	if err != nil {
		t.Fatalf("SignTransaction: %s", err)
	}
	return tx
}

// OutputOutpoint returns the outpoint of the index-th output of tx
func OutputOutpoint(tx *externalapi.DomainTransaction, index uint16) *externalapi.DomainOutpoint {
	return externalapi.NewDomainOutpoint(consensushashing.TransactionID(tx), index)
}
