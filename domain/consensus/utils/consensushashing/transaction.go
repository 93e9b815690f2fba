package consensushashing

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
)

// TransactionID generates the Hash for the transaction. The result is
// cached in tx.ID.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainTransactionID {
	if tx.ID != nil {
		return tx.ID
	}

	writer := hashes.NewTransactionIDWriter()
	writer.InfallibleWrite(serialization.SerializeTransaction(tx))
	transactionID := externalapi.DomainTransactionID(*writer.Finalize())

	tx.ID = &transactionID
	return tx.ID
}

// TransactionSigningHash returns the message every input of tx signs
func TransactionSigningHash(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewTransactionSigningHashWriter()
	writer.InfallibleWrite(serialization.SerializeTransactionEssence(tx))
	return writer.Finalize()
}

// AddressFromPublicKey returns the address owned by the given serialized
// public key
func AddressFromPublicKey(publicKey []byte) *externalapi.DomainAddress {
	writer := hashes.NewAddressHashWriter()
	writer.InfallibleWrite(publicKey)
	address := externalapi.DomainAddress(*writer.Finalize().ByteArray())
	return &address
}

// OutputOutpoints returns the outpoints of the outputs tx creates
func OutputOutpoints(tx *externalapi.DomainTransaction) []*externalapi.DomainOutpoint {
	transactionID := TransactionID(tx)
	outpoints := make([]*externalapi.DomainOutpoint, len(tx.Outputs))
	for i := range tx.Outputs {
		outpoints[i] = externalapi.NewDomainOutpoint(transactionID, uint16(i))
	}
	return outpoints
}
