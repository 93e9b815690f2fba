package schnorr

import (
	"github.com/kaspanet/go-secp256k1"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
)

type verifier struct{}

// NewVerifier returns a SignatureVerifier for Schnorr signatures over
// secp256k1
func NewVerifier() model.SignatureVerifier {
	return verifier{}
}

// Verify returns whether signature is a valid signature of message by the
// owner of owner
func (verifier) Verify(message []byte, signature *externalapi.DomainSignature, owner *externalapi.DomainAddress) bool {
	if signature == nil || owner == nil || len(message) != secp256k1.HashSize {
		return false
	}
	if *consensushashing.AddressFromPublicKey(signature.PublicKey) != *owner {
		return false
	}

	publicKey, err := secp256k1.DeserializeSchnorrPubKey(signature.PublicKey)
	if err != nil {
		return false
	}
	schnorrSignature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(signature.Signature)
	if err != nil {
		return false
	}

	var hash secp256k1.Hash
	copy(hash[:], message)
	return publicKey.SchnorrVerify(&hash, schnorrSignature)
}
