package externalapi

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// DomainTransaction represents a value transfer carried by a block
type DomainTransaction struct {
	Inputs  []*DomainTransactionInput
	Outputs []*DomainTransactionOutput

	// ID is a cache of the transaction id. It is not part of the
	// transaction's encoding.
	ID *DomainTransactionID
}

// PayloadType implements DomainPayload
func (tx *DomainTransaction) PayloadType() PayloadType {
	return PayloadTypeTransaction
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() DomainPayload {
	inputsClone := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputsClone[i] = input.Clone()
	}

	outputsClone := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputsClone[i] = output.Clone()
	}

	var idClone *DomainTransactionID
	if tx.ID != nil {
		idClone = tx.ID.Clone()
	}

	return &DomainTransaction{
		Inputs:  inputsClone,
		Outputs: outputsClone,
		ID:      idClone,
	}
}

// Equal returns whether tx equals to other. The cached ID is ignored.
func (tx *DomainTransaction) Equal(other DomainPayload) bool {
	otherTx, ok := other.(*DomainTransaction)
	if !ok {
		return false
	}
	if tx == nil || otherTx == nil {
		return tx == otherTx
	}
	if len(tx.Inputs) != len(otherTx.Inputs) || len(tx.Outputs) != len(otherTx.Outputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(otherTx.Inputs[i]) {
			return false
		}
	}
	for i, output := range tx.Outputs {
		if !output.Equal(otherTx.Outputs[i]) {
			return false
		}
	}
	return true
}

// DomainTransactionInput represents the consumption of a previous output
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint
	Signature        *DomainSignature
}

// Clone returns a clone of DomainTransactionInput
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	var signatureClone *DomainSignature
	if input.Signature != nil {
		signatureClone = input.Signature.Clone()
	}
	return &DomainTransactionInput{
		PreviousOutpoint: *input.PreviousOutpoint.Clone(),
		Signature:        signatureClone,
	}
}

// Equal returns whether input equals to other
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}
	return input.PreviousOutpoint.Equal(&other.PreviousOutpoint) &&
		input.Signature.Equal(other.Signature)
}

// DomainSignature unlocks an output. PublicKey is a serialized x-only
// Schnorr public key whose address must match the output's owner.
type DomainSignature struct {
	PublicKey []byte
	Signature []byte
}

// Clone returns a clone of DomainSignature
func (signature *DomainSignature) Clone() *DomainSignature {
	publicKeyClone := make([]byte, len(signature.PublicKey))
	copy(publicKeyClone, signature.PublicKey)
	signatureClone := make([]byte, len(signature.Signature))
	copy(signatureClone, signature.Signature)
	return &DomainSignature{PublicKey: publicKeyClone, Signature: signatureClone}
}

// Equal returns whether signature equals to other
func (signature *DomainSignature) Equal(other *DomainSignature) bool {
	if signature == nil || other == nil {
		return signature == other
	}
	return bytes.Equal(signature.PublicKey, other.PublicKey) &&
		bytes.Equal(signature.Signature, other.Signature)
}

// DomainTransactionOutput represents an amount locked to an address
type DomainTransactionOutput struct {
	Amount  uint64
	Address DomainAddress
}

// Clone returns a clone of DomainTransactionOutput
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	return &DomainTransactionOutput{
		Amount:  output.Amount,
		Address: output.Address,
	}
}

// Equal returns whether output equals to other
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}
	return output.Amount == other.Amount && output.Address == other.Address
}

// DomainOutpoint identifies an output: the creating transaction and the
// position of the output within it.
type DomainOutpoint struct {
	TransactionID DomainTransactionID
	Index         uint16
}

// DomainOutpointSize is the size of a serialized outpoint
const DomainOutpointSize = DomainHashSize + 2

// NewDomainOutpoint instantiates a new DomainOutpoint with the given id and index
func NewDomainOutpoint(id *DomainTransactionID, index uint16) *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: *id,
		Index:         index,
	}
}

// Clone returns a clone of DomainOutpoint
func (op *DomainOutpoint) Clone() *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: op.TransactionID,
		Index:         op.Index,
	}
}

// Equal returns whether op equals to other
func (op *DomainOutpoint) Equal(other *DomainOutpoint) bool {
	if op == nil || other == nil {
		return op == other
	}
	return *op == *other
}

// Bytes returns the fixed size encoding of the outpoint: the transaction id
// followed by the big-endian index. Byte order of the encoding is the
// iteration order of outpoint-keyed stores.
func (op *DomainOutpoint) Bytes() []byte {
	serialized := make([]byte, DomainOutpointSize)
	copy(serialized, op.TransactionID.ByteSlice())
	binary.BigEndian.PutUint16(serialized[DomainHashSize:], op.Index)
	return serialized
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("(%s: %d)", op.TransactionID, op.Index)
}

// DomainTransactionID represents the ID of a transaction
type DomainTransactionID DomainHash

// NewDomainTransactionIDFromByteArray constructs a new TransactionID out of a byte array
func NewDomainTransactionIDFromByteArray(transactionIDBytes *[DomainHashSize]byte) *DomainTransactionID {
	return (*DomainTransactionID)(NewDomainHashFromByteArray(transactionIDBytes))
}

// NewDomainTransactionIDFromByteSlice constructs a new TransactionID out of a byte slice
func NewDomainTransactionIDFromByteSlice(transactionIDBytes []byte) (*DomainTransactionID, error) {
	hash, err := NewDomainHashFromByteSlice(transactionIDBytes)
	if err != nil {
		return nil, err
	}
	return (*DomainTransactionID)(hash), nil
}

// String stringifies a transaction ID.
func (id DomainTransactionID) String() string {
	return DomainHash(id).String()
}

// Clone returns a clone of DomainTransactionID
func (id *DomainTransactionID) Clone() *DomainTransactionID {
	idClone := *id
	return &idClone
}

// Equal returns whether id equals to other
func (id *DomainTransactionID) Equal(other *DomainTransactionID) bool {
	return (*DomainHash)(id).Equal((*DomainHash)(other))
}

// ByteSlice returns the bytes in this transactionID represented as a bytes slice.
func (id *DomainTransactionID) ByteSlice() []byte {
	return (*DomainHash)(id).ByteSlice()
}

// ByteArray returns the bytes in this transactionID represented as a bytes array.
func (id *DomainTransactionID) ByteArray() *[DomainHashSize]byte {
	return (*DomainHash)(id).ByteArray()
}
