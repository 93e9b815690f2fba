package serialization

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	mutationsConsumedField protowire.Number = 1
	mutationsCreatedField  protowire.Number = 2
)

// UTXOMutationsToDBUTXOMutations serializes UTXOMutations
func UTXOMutationsToDBUTXOMutations(mutations *externalapi.UTXOMutations) []byte {
	var b []byte
	for _, outpoint := range mutations.Consumed {
		b = wire.AppendBytesField(b, mutationsConsumedField, wire.AppendOutpoint(nil, outpoint))
	}
	for _, created := range mutations.Created {
		b = wire.AppendBytesField(b, mutationsCreatedField, wire.SerializeUTXO(created.Outpoint, created.UTXOEntry))
	}
	return b
}

// DBUTXOMutationsToUTXOMutations deserializes UTXOMutations
func DBUTXOMutationsToUTXOMutations(serialized []byte) (*externalapi.UTXOMutations, error) {
	mutations := &externalapi.UTXOMutations{
		Consumed: []*externalapi.DomainOutpoint{},
		Created:  []*externalapi.OutpointAndUTXOEntryPair{},
	}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		switch number {
		case mutationsConsumedField:
			value, n, err := wire.ConsumeBytes(fieldType, b)
			if err != nil {
				return 0, err
			}
			outpoint, err := wire.DeserializeOutpoint(value)
			if err != nil {
				return 0, err
			}
			mutations.Consumed = append(mutations.Consumed, outpoint)
			return n, nil
		case mutationsCreatedField:
			value, n, err := wire.ConsumeBytes(fieldType, b)
			if err != nil {
				return 0, err
			}
			outpoint, entry, err := wire.DeserializeUTXO(value)
			if err != nil {
				return 0, err
			}
			mutations.Created = append(mutations.Created,
				&externalapi.OutpointAndUTXOEntryPair{Outpoint: outpoint, UTXOEntry: entry})
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return mutations, nil
}
