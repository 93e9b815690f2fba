package hashes

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	blockDomain              = "BlockHash"
	transactionIDDomain      = "TransactionID"
	transactionSigningDomain = "TransactionSigningHash"
	addressDomain            = "AddressHash"
)

func newKeyedHashWriter(domain string) HashWriter {
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewBlockHashWriter Returns a new HashWriter used for block ids
func NewBlockHashWriter() HashWriter {
	return newKeyedHashWriter(blockDomain)
}

// NewTransactionIDWriter Returns a new HashWriter used for transaction IDs
func NewTransactionIDWriter() HashWriter {
	return newKeyedHashWriter(transactionIDDomain)
}

// NewTransactionSigningHashWriter Returns a new HashWriter used for the
// message signed by the inputs of a transaction
func NewTransactionSigningHashWriter() HashWriter {
	return newKeyedHashWriter(transactionSigningDomain)
}

// NewAddressHashWriter Returns a new HashWriter used to derive an address
// from a public key
func NewAddressHashWriter() HashWriter {
	return newKeyedHashWriter(addressDomain)
}

// NewMerkleHashWriter Returns an unkeyed blake2b-256 HashWriter, used for
// the nodes of white-flag merkle trees
func NewMerkleHashWriter() HashWriter {
	blake, err := blake2b.New256(nil)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. an unkeyed blake2b-256 can always be created"))
	}
	return HashWriter{blake}
}
