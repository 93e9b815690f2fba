package snapshot

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	headerVersionField         protowire.Number = 1
	headerKindField            protowire.Number = 2
	headerNetworkIDField       protowire.Number = 3
	headerLedgerIndexField     protowire.Number = 4
	headerFromIndexField       protowire.Number = 5
	headerSolidEntryPointField protowire.Number = 6
	headerOutputCountField     protowire.Number = 7
	headerDiffCountField       protowire.Number = 8
	headerLedgerStateHashField protowire.Number = 9

	solidEntryPointHashField           protowire.Number = 1
	solidEntryPointConfirmedIndexField protowire.Number = 2
)

func serializeHeader(header *Header) []byte {
	b := serialization.AppendVarintField(nil, headerVersionField, uint64(header.Version))
	b = serialization.AppendVarintField(b, headerKindField, uint64(header.Kind))
	b = serialization.AppendVarintField(b, headerNetworkIDField, uint64(header.NetworkID))
	b = serialization.AppendVarintField(b, headerLedgerIndexField, uint64(header.LedgerIndex))
	b = serialization.AppendVarintField(b, headerFromIndexField, uint64(header.FromIndex))
	for _, solidEntryPoint := range header.SolidEntryPoints {
		b = serialization.AppendBytesField(b, headerSolidEntryPointField, serializeSolidEntryPoint(solidEntryPoint))
	}
	b = serialization.AppendVarintField(b, headerOutputCountField, header.OutputCount)
	b = serialization.AppendVarintField(b, headerDiffCountField, header.DiffCount)
	if header.LedgerStateHash != nil {
		b = serialization.AppendHashField(b, headerLedgerStateHashField, header.LedgerStateHash)
	}
	return b
}

func deserializeHeader(data []byte) (*Header, error) {
	header := &Header{}
	err := serialization.ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case headerVersionField:
			value, n, err := consumeUint32(fieldType, data)
			header.Version = value
			return n, err
		case headerKindField:
			value, n, err := serialization.ConsumeVarint(fieldType, data)
			header.Kind = Kind(value)
			return n, err
		case headerNetworkIDField:
			value, n, err := consumeUint32(fieldType, data)
			header.NetworkID = value
			return n, err
		case headerLedgerIndexField:
			value, n, err := consumeUint32(fieldType, data)
			header.LedgerIndex = externalapi.MilestoneIndex(value)
			return n, err
		case headerFromIndexField:
			value, n, err := consumeUint32(fieldType, data)
			header.FromIndex = externalapi.MilestoneIndex(value)
			return n, err
		case headerSolidEntryPointField:
			value, n, err := serialization.ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			solidEntryPoint, err := deserializeSolidEntryPoint(value)
			if err != nil {
				return 0, err
			}
			header.SolidEntryPoints = append(header.SolidEntryPoints, solidEntryPoint)
			return n, nil
		case headerOutputCountField:
			value, n, err := serialization.ConsumeVarint(fieldType, data)
			header.OutputCount = value
			return n, err
		case headerDiffCountField:
			value, n, err := serialization.ConsumeVarint(fieldType, data)
			header.DiffCount = value
			return n, err
		case headerLedgerStateHashField:
			value, n, err := serialization.ConsumeHash(fieldType, data)
			header.LedgerStateHash = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if header.Kind != KindFull && header.Kind != KindDelta {
		return nil, errors.Errorf("unknown snapshot kind %d", header.Kind)
	}
	return header, nil
}

func serializeSolidEntryPoint(solidEntryPoint *SolidEntryPoint) []byte {
	b := serialization.AppendHashField(nil, solidEntryPointHashField, solidEntryPoint.BlockHash)
	return serialization.AppendVarintField(b, solidEntryPointConfirmedIndexField,
		uint64(solidEntryPoint.ConfirmedIndex))
}

func deserializeSolidEntryPoint(data []byte) (*SolidEntryPoint, error) {
	solidEntryPoint := &SolidEntryPoint{}
	err := serialization.ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case solidEntryPointHashField:
			value, n, err := serialization.ConsumeHash(fieldType, data)
			solidEntryPoint.BlockHash = value
			return n, err
		case solidEntryPointConfirmedIndexField:
			value, n, err := consumeUint32(fieldType, data)
			solidEntryPoint.ConfirmedIndex = externalapi.MilestoneIndex(value)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if solidEntryPoint.BlockHash == nil {
		return nil, errors.New("solid entry point is missing its block hash")
	}
	return solidEntryPoint, nil
}

func consumeUint32(fieldType protowire.Type, data []byte) (uint32, int, error) {
	value, n, err := serialization.ConsumeVarint(fieldType, data)
	if err != nil {
		return 0, 0, err
	}
	if value > math.MaxUint32 {
		return 0, 0, errors.Errorf("value %d is out of range", value)
	}
	return uint32(value), n, nil
}
