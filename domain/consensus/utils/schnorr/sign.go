package schnorr

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
)

// SerializedPublicKey returns the serialized public key of keyPair
func SerializedPublicKey(keyPair *secp256k1.SchnorrKeyPair) ([]byte, error) {
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, err
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, err
	}
	return serializedPublicKey[:], nil
}

// Address returns the address owned by keyPair
func Address(keyPair *secp256k1.SchnorrKeyPair) (*externalapi.DomainAddress, error) {
	serializedPublicKey, err := SerializedPublicKey(keyPair)
	if err != nil {
		return nil, err
	}
	return consensushashing.AddressFromPublicKey(serializedPublicKey), nil
}

// Sign signs message with keyPair
func Sign(keyPair *secp256k1.SchnorrKeyPair, message *externalapi.DomainHash) (*externalapi.DomainSignature, error) {
	serializedPublicKey, err := SerializedPublicKey(keyPair)
	if err != nil {
		return nil, err
	}
	hash := secp256k1.Hash(*message.ByteArray())
	signature, err := keyPair.SchnorrSign(&hash)
	if err != nil {
		return nil, errors.Errorf("cannot sign message: %s", err)
	}
	return &externalapi.DomainSignature{
		PublicKey: serializedPublicKey,
		Signature: signature.Serialize()[:],
	}, nil
}

// SignTransaction signs every input of tx with keyPair
func SignTransaction(keyPair *secp256k1.SchnorrKeyPair, tx *externalapi.DomainTransaction) error {
	signingHash := consensushashing.TransactionSigningHash(tx)
	for _, input := range tx.Inputs {
		signature, err := Sign(keyPair, signingHash)
		if err != nil {
			return err
		}
		input.Signature = signature
	}
	tx.ID = nil
	return nil
}
