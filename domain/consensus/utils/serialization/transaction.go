package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

// maxTransactionOutputs is bounded by the outpoint index type
const maxTransactionOutputs = math.MaxUint16 + 1

const (
	transactionInputField  protowire.Number = 1
	transactionOutputField protowire.Number = 2

	inputOutpointField  protowire.Number = 1
	inputSignatureField protowire.Number = 2

	signaturePublicKeyField protowire.Number = 1
	signatureSignatureField protowire.Number = 2

	outputAmountField  protowire.Number = 1
	outputAddressField protowire.Number = 2
)

// SerializeTransaction returns the canonical encoding of tx. The cached ID
// is not part of it.
func SerializeTransaction(tx *externalapi.DomainTransaction) []byte {
	var b []byte
	for _, input := range tx.Inputs {
		b = AppendBytesField(b, transactionInputField, serializeInput(input, true))
	}
	for _, output := range tx.Outputs {
		b = AppendBytesField(b, transactionOutputField, serializeOutput(output))
	}
	return b
}

// SerializeTransactionEssence returns the encoding of tx without its
// signatures: the part of a transaction its signatures sign
func SerializeTransactionEssence(tx *externalapi.DomainTransaction) []byte {
	var b []byte
	for _, input := range tx.Inputs {
		b = AppendBytesField(b, transactionInputField, serializeInput(input, false))
	}
	for _, output := range tx.Outputs {
		b = AppendBytesField(b, transactionOutputField, serializeOutput(output))
	}
	return b
}

func serializeInput(input *externalapi.DomainTransactionInput, includeSignature bool) []byte {
	b := AppendBytesField(nil, inputOutpointField, AppendOutpoint(nil, &input.PreviousOutpoint))
	if includeSignature && input.Signature != nil {
		var signature []byte
		signature = AppendBytesField(signature, signaturePublicKeyField, input.Signature.PublicKey)
		signature = AppendBytesField(signature, signatureSignatureField, input.Signature.Signature)
		b = AppendBytesField(b, inputSignatureField, signature)
	}
	return b
}

func serializeOutput(output *externalapi.DomainTransactionOutput) []byte {
	b := AppendVarintField(nil, outputAmountField, output.Amount)
	return AppendBytesField(b, outputAddressField, output.Address[:])
}

// DeserializeTransaction decodes a transaction encoded by SerializeTransaction
func DeserializeTransaction(data []byte) (*externalapi.DomainTransaction, error) {
	tx := &externalapi.DomainTransaction{
		Inputs:  []*externalapi.DomainTransactionInput{},
		Outputs: []*externalapi.DomainTransactionOutput{},
	}
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case transactionInputField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			input, err := deserializeInput(value)
			if err != nil {
				return 0, err
			}
			tx.Inputs = append(tx.Inputs, input)
			return n, nil
		case transactionOutputField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			output, err := deserializeOutput(value)
			if err != nil {
				return 0, err
			}
			tx.Outputs = append(tx.Outputs, output)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if len(tx.Outputs) > maxTransactionOutputs {
		return nil, errors.Errorf("transaction has %d outputs, more than the %d an outpoint index can address",
			len(tx.Outputs), maxTransactionOutputs)
	}
	return tx, nil
}

func deserializeInput(data []byte) (*externalapi.DomainTransactionInput, error) {
	var outpoint *externalapi.DomainOutpoint
	var signature *externalapi.DomainSignature
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case inputOutpointField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			outpoint, err = DeserializeOutpoint(value)
			return n, err
		case inputSignatureField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			signature, err = deserializeSignature(value)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if outpoint == nil {
		return nil, errors.New("transaction input is missing its outpoint")
	}
	return &externalapi.DomainTransactionInput{
		PreviousOutpoint: *outpoint,
		Signature:        signature,
	}, nil
}

func deserializeSignature(data []byte) (*externalapi.DomainSignature, error) {
	signature := &externalapi.DomainSignature{PublicKey: []byte{}, Signature: []byte{}}
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case signaturePublicKeyField:
			value, n, err := ConsumeCopiedBytes(fieldType, data)
			signature.PublicKey = value
			return n, err
		case signatureSignatureField:
			value, n, err := ConsumeCopiedBytes(fieldType, data)
			signature.Signature = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return signature, nil
}

func deserializeOutput(data []byte) (*externalapi.DomainTransactionOutput, error) {
	output := &externalapi.DomainTransactionOutput{}
	hasAddress := false
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case outputAmountField:
			value, n, err := ConsumeVarint(fieldType, data)
			output.Amount = value
			return n, err
		case outputAddressField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			address, err := externalapi.NewDomainAddressFromByteSlice(value)
			if err != nil {
				return 0, err
			}
			output.Address = *address
			hasAddress = true
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if !hasAddress {
		return nil, errors.New("transaction output is missing its address")
	}
	return output, nil
}
