package snapshot

import (
	"github.com/pkg/errors"
	dbserialization "github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	diffIndexField     protowire.Number = 1
	diffMutationsField protowire.Number = 2
)

func serializeDiff(diff *MilestoneDiff) []byte {
	b := serialization.AppendVarintField(nil, diffIndexField, uint64(diff.Index))
	return serialization.AppendBytesField(b, diffMutationsField,
		dbserialization.UTXOMutationsToDBUTXOMutations(diff.Mutations))
}

func deserializeDiff(data []byte) (*MilestoneDiff, error) {
	diff := &MilestoneDiff{}
	err := serialization.ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case diffIndexField:
			value, n, err := consumeUint32(fieldType, data)
			diff.Index = externalapi.MilestoneIndex(value)
			return n, err
		case diffMutationsField:
			value, n, err := serialization.ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			diff.Mutations, err = dbserialization.DBUTXOMutationsToUTXOMutations(value)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if diff.Mutations == nil {
		return nil, errors.Errorf("the diff of milestone %d is missing its mutations", diff.Index)
	}
	return diff, nil
}
