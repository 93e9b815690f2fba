package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// TransactionValidator exposes a set of validation classes, after which
// it's possible to determine whether a transaction is valid
type TransactionValidator interface {
	ValidateTransactionInIsolation(transaction *externalapi.DomainTransaction) error
	ValidateTransactionAmounts(transaction *externalapi.DomainTransaction, spentEntries []externalapi.UTXOEntry) error
	ValidateTransactionSignatures(transaction *externalapi.DomainTransaction, spentEntries []externalapi.UTXOEntry) error
}

// SignatureVerifier verifies that signature signs message and was made by
// the key owning owner
type SignatureVerifier interface {
	Verify(message []byte, signature *externalapi.DomainSignature, owner *externalapi.DomainAddress) bool
}
