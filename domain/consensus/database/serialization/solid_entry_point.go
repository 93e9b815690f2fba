package serialization

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	solidEntryPointConfirmedIndexField protowire.Number = 1
	solidEntryPointPrunedAtIndexField  protowire.Number = 2
)

// SolidEntryPointToDBSolidEntryPoint serializes a SolidEntryPoint for the database
func SolidEntryPointToDBSolidEntryPoint(solidEntryPoint *externalapi.SolidEntryPoint) []byte {
	b := wire.AppendVarintField(nil, solidEntryPointConfirmedIndexField, uint64(solidEntryPoint.ConfirmedIndex))
	return wire.AppendVarintField(b, solidEntryPointPrunedAtIndexField, uint64(solidEntryPoint.PrunedAtIndex))
}

// DBSolidEntryPointToSolidEntryPoint deserializes a SolidEntryPoint
func DBSolidEntryPointToSolidEntryPoint(serialized []byte) (*externalapi.SolidEntryPoint, error) {
	solidEntryPoint := &externalapi.SolidEntryPoint{}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		switch number {
		case solidEntryPointConfirmedIndexField:
			value, n, err := consumeMilestoneIndex(fieldType, b)
			solidEntryPoint.ConfirmedIndex = value
			return n, err
		case solidEntryPointPrunedAtIndexField:
			value, n, err := consumeMilestoneIndex(fieldType, b)
			solidEntryPoint.PrunedAtIndex = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return solidEntryPoint, nil
}
