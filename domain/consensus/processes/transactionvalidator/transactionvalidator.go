package transactionvalidator

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
)

// transactionValidator exposes a set of validation classes, after which
// it's possible to determine whether either a transaction is valid
type transactionValidator struct {
	totalSupply       uint64
	signatureVerifier model.SignatureVerifier
}

// New instantiates a new TransactionValidator
func New(totalSupply uint64, signatureVerifier model.SignatureVerifier) model.TransactionValidator {
	return &transactionValidator{
		totalSupply:       totalSupply,
		signatureVerifier: signatureVerifier,
	}
}
