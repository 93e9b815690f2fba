package serialization

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

// FieldHandler consumes the value of one field. It returns the number of
// bytes consumed, or a negative number if it does not know the field, in
// which case the value is skipped.
type FieldHandler func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error)

// ForEachField calls handler for every field of a protowire encoded message
func ForEachField(data []byte, handler FieldHandler) error {
	for len(data) > 0 {
		number, fieldType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return errors.Wrap(protowire.ParseError(n), "malformed field tag")
		}
		data = data[n:]

		consumed, err := handler(number, fieldType, data)
		if err != nil {
			return errors.Wrapf(err, "malformed field %d", number)
		}
		if consumed < 0 {
			consumed = protowire.ConsumeFieldValue(number, fieldType, data)
			if consumed < 0 {
				return errors.Wrapf(protowire.ParseError(consumed), "malformed unknown field %d", number)
			}
		}
		data = data[consumed:]
	}
	return nil
}

// ConsumeVarint reads a varint field value
func ConsumeVarint(fieldType protowire.Type, data []byte) (uint64, int, error) {
	if fieldType != protowire.VarintType {
		return 0, 0, errors.Errorf("expected a varint but got wire type %d", fieldType)
	}
	value, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return value, n, nil
}

// ConsumeBytes reads a length delimited field value. The result aliases data.
func ConsumeBytes(fieldType protowire.Type, data []byte) ([]byte, int, error) {
	if fieldType != protowire.BytesType {
		return nil, 0, errors.Errorf("expected bytes but got wire type %d", fieldType)
	}
	value, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, protowire.ParseError(n)
	}
	return value, n, nil
}

// ConsumeHash reads a length delimited field holding a hash
func ConsumeHash(fieldType protowire.Type, data []byte) (*externalapi.DomainHash, int, error) {
	value, n, err := ConsumeBytes(fieldType, data)
	if err != nil {
		return nil, 0, err
	}
	hash, err := externalapi.NewDomainHashFromByteSlice(value)
	if err != nil {
		return nil, 0, err
	}
	return hash, n, nil
}

// ConsumeCopiedBytes is like ConsumeBytes but returns a copy of the value
func ConsumeCopiedBytes(fieldType protowire.Type, data []byte) ([]byte, int, error) {
	value, n, err := ConsumeBytes(fieldType, data)
	if err != nil {
		return nil, 0, err
	}
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, n, nil
}

// AppendVarintField appends a varint field
func AppendVarintField(b []byte, number protowire.Number, value uint64) []byte {
	b = protowire.AppendTag(b, number, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

// AppendBytesField appends a length delimited field
func AppendBytesField(b []byte, number protowire.Number, value []byte) []byte {
	b = protowire.AppendTag(b, number, protowire.BytesType)
	return protowire.AppendBytes(b, value)
}

// AppendHashField appends a length delimited field holding hash
func AppendHashField(b []byte, number protowire.Number, hash *externalapi.DomainHash) []byte {
	return AppendBytesField(b, number, hash.ByteSlice())
}
