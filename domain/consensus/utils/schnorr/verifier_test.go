package schnorr

import (
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
)

func TestSignAndVerify(t *testing.T) {
	keyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("TestSignAndVerify: GenerateSchnorrKeyPair unexpectedly failed: %s", err)
	}
	otherKeyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("TestSignAndVerify: GenerateSchnorrKeyPair unexpectedly failed: %s", err)
	}
	owner, err := Address(keyPair)
	if err != nil {
		t.Fatalf("TestSignAndVerify: Address unexpectedly failed: %s", err)
	}
	otherOwner, err := Address(otherKeyPair)
	if err != nil {
		t.Fatalf("TestSignAndVerify: Address unexpectedly failed: %s", err)
	}

	tx := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(
				externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{1}), 0),
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{Amount: 10, Address: *otherOwner}},
	}
	err = SignTransaction(keyPair, tx)
	if err != nil {
		t.Fatalf("TestSignAndVerify: SignTransaction unexpectedly failed: %s", err)
	}
	message := consensushashing.TransactionSigningHash(tx).ByteSlice()
	signature := tx.Inputs[0].Signature

	verifier := NewVerifier()
	if !verifier.Verify(message, signature, owner) {
		t.Fatalf("TestSignAndVerify: a valid signature was rejected")
	}
	if verifier.Verify(message, signature, otherOwner) {
		t.Fatalf("TestSignAndVerify: a signature by a key that doesn't own the output was accepted")
	}

	tx.Outputs[0].Amount = 11
	tamperedMessage := consensushashing.TransactionSigningHash(tx).ByteSlice()
	if verifier.Verify(tamperedMessage, signature, owner) {
		t.Fatalf("TestSignAndVerify: a signature over another message was accepted")
	}

	corrupted := signature.Clone()
	corrupted.Signature[0] ^= 0xff
	if verifier.Verify(message, corrupted, owner) {
		t.Fatalf("TestSignAndVerify: a corrupted signature was accepted")
	}
	if verifier.Verify(message, nil, owner) {
		t.Fatalf("TestSignAndVerify: a missing signature was accepted")
	}
}
