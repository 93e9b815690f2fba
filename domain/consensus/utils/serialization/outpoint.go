package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	outpointTransactionIDField protowire.Number = 1
	outpointIndexField         protowire.Number = 2
)

// AppendOutpoint appends the encoding of outpoint
func AppendOutpoint(b []byte, outpoint *externalapi.DomainOutpoint) []byte {
	b = AppendBytesField(b, outpointTransactionIDField, outpoint.TransactionID.ByteSlice())
	return AppendVarintField(b, outpointIndexField, uint64(outpoint.Index))
}

// DeserializeOutpoint decodes an outpoint encoded by AppendOutpoint
func DeserializeOutpoint(data []byte) (*externalapi.DomainOutpoint, error) {
	var transactionID *externalapi.DomainTransactionID
	var index uint64
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case outpointTransactionIDField:
			hash, n, err := ConsumeHash(fieldType, data)
			if err != nil {
				return 0, err
			}
			transactionID = (*externalapi.DomainTransactionID)(hash)
			return n, nil
		case outpointIndexField:
			value, n, err := ConsumeVarint(fieldType, data)
			index = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if transactionID == nil {
		return nil, errors.New("outpoint is missing its transaction id")
	}
	if index > math.MaxUint16 {
		return nil, errors.Errorf("outpoint index %d is out of range", index)
	}
	return externalapi.NewDomainOutpoint(transactionID, uint16(index)), nil
}

// OutpointFromKey parses the fixed size outpoint encoding returned by
// DomainOutpoint.Bytes
func OutpointFromKey(key []byte) (*externalapi.DomainOutpoint, error) {
	if len(key) != externalapi.DomainOutpointSize {
		return nil, errors.Errorf("outpoint key expected to be in length of %d but got %d",
			externalapi.DomainOutpointSize, len(key))
	}
	transactionID, err := externalapi.NewDomainTransactionIDFromByteSlice(key[:externalapi.DomainHashSize])
	if err != nil {
		return nil, err
	}
	index := uint16(key[externalapi.DomainHashSize])<<8 | uint16(key[externalapi.DomainHashSize+1])
	return externalapi.NewDomainOutpoint(transactionID, index), nil
}
