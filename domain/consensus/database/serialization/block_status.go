package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	blockStatusStatusField             protowire.Number = 1
	blockStatusArrivalTimeField        protowire.Number = 2
	blockStatusArrivalLedgerIndexField protowire.Number = 3
)

// BlockStatusDataToDBBlockStatusData serializes BlockStatusData for the database
func BlockStatusDataToDBBlockStatusData(data *externalapi.BlockStatusData) []byte {
	b := wire.AppendVarintField(nil, blockStatusStatusField, uint64(data.Status))
	b = wire.AppendVarintField(b, blockStatusArrivalTimeField, protowire.EncodeZigZag(data.ArrivalTime))
	return wire.AppendVarintField(b, blockStatusArrivalLedgerIndexField, uint64(data.ArrivalLedgerIndex))
}

// DBBlockStatusDataToBlockStatusData deserializes BlockStatusData
func DBBlockStatusDataToBlockStatusData(serialized []byte) (*externalapi.BlockStatusData, error) {
	data := &externalapi.BlockStatusData{}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		switch number {
		case blockStatusStatusField:
			value, n, err := wire.ConsumeVarint(fieldType, b)
			if err != nil {
				return 0, err
			}
			if value > uint64(externalapi.StatusSolid) {
				return 0, errors.Errorf("unknown block status %d", value)
			}
			data.Status = externalapi.BlockStatus(value)
			return n, nil
		case blockStatusArrivalTimeField:
			value, n, err := wire.ConsumeVarint(fieldType, b)
			data.ArrivalTime = protowire.DecodeZigZag(value)
			return n, err
		case blockStatusArrivalLedgerIndexField:
			value, n, err := consumeMilestoneIndex(fieldType, b)
			data.ArrivalLedgerIndex = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func consumeMilestoneIndex(fieldType protowire.Type, b []byte) (externalapi.MilestoneIndex, int, error) {
	value, n, err := wire.ConsumeVarint(fieldType, b)
	if err != nil {
		return 0, 0, err
	}
	if value > math.MaxUint32 {
		return 0, 0, errors.Errorf("milestone index %d is out of range", value)
	}
	return externalapi.MilestoneIndex(value), n, nil
}
