package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	blockParentField      protowire.Number = 1
	blockNonceField       protowire.Number = 2
	blockTransactionField protowire.Number = 3
	blockMilestoneField   protowire.Number = 4
	blockTaggedDataField  protowire.Number = 5

	milestoneIndexField               protowire.Number = 1
	milestoneTimestampField           protowire.Number = 2
	milestoneInclusionMerkleRootField protowire.Number = 3
	milestoneAppliedMerkleRootField   protowire.Number = 4

	taggedDataTagField  protowire.Number = 1
	taggedDataDataField protowire.Number = 2
)

// SerializeBlock returns the canonical encoding of block. Block ids are
// computed over it.
func SerializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	var b []byte
	for _, parent := range block.Parents {
		b = AppendHashField(b, blockParentField, parent)
	}
	b = AppendVarintField(b, blockNonceField, block.Nonce)

	switch payload := block.Payload.(type) {
	case nil:
	case *externalapi.DomainTransaction:
		b = AppendBytesField(b, blockTransactionField, SerializeTransaction(payload))
	case *externalapi.DomainMilestone:
		b = AppendBytesField(b, blockMilestoneField, serializeMilestone(payload))
	case *externalapi.DomainTaggedData:
		b = AppendBytesField(b, blockTaggedDataField, serializeTaggedData(payload))
	default:
		return nil, errors.Errorf("unknown payload type %T", block.Payload)
	}
	return b, nil
}

func serializeMilestone(milestone *externalapi.DomainMilestone) []byte {
	b := AppendVarintField(nil, milestoneIndexField, uint64(milestone.Index))
	b = AppendVarintField(b, milestoneTimestampField, protowire.EncodeZigZag(milestone.Timestamp))
	if milestone.InclusionMerkleRoot != nil {
		b = AppendHashField(b, milestoneInclusionMerkleRootField, milestone.InclusionMerkleRoot)
	}
	if milestone.AppliedMerkleRoot != nil {
		b = AppendHashField(b, milestoneAppliedMerkleRootField, milestone.AppliedMerkleRoot)
	}
	return b
}

func serializeTaggedData(taggedData *externalapi.DomainTaggedData) []byte {
	b := AppendBytesField(nil, taggedDataTagField, taggedData.Tag)
	return AppendBytesField(b, taggedDataDataField, taggedData.Data)
}

// DeserializeBlock decodes a block encoded by SerializeBlock
func DeserializeBlock(data []byte) (*externalapi.DomainBlock, error) {
	block := &externalapi.DomainBlock{Parents: []*externalapi.DomainHash{}}
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case blockParentField:
			parent, n, err := ConsumeHash(fieldType, data)
			if err != nil {
				return 0, err
			}
			block.Parents = append(block.Parents, parent)
			return n, nil
		case blockNonceField:
			value, n, err := ConsumeVarint(fieldType, data)
			block.Nonce = value
			return n, err
		case blockTransactionField, blockMilestoneField, blockTaggedDataField:
			if block.Payload != nil {
				return 0, errors.New("block has more than one payload")
			}
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			block.Payload, err = deserializePayload(number, value)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func deserializePayload(number protowire.Number, data []byte) (externalapi.DomainPayload, error) {
	switch number {
	case blockTransactionField:
		return DeserializeTransaction(data)
	case blockMilestoneField:
		return deserializeMilestone(data)
	default:
		return deserializeTaggedData(data)
	}
}

func deserializeMilestone(data []byte) (*externalapi.DomainMilestone, error) {
	milestone := &externalapi.DomainMilestone{}
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case milestoneIndexField:
			value, n, err := ConsumeVarint(fieldType, data)
			if err != nil {
				return 0, err
			}
			if value > math.MaxUint32 {
				return 0, errors.Errorf("milestone index %d is out of range", value)
			}
			milestone.Index = externalapi.MilestoneIndex(value)
			return n, nil
		case milestoneTimestampField:
			value, n, err := ConsumeVarint(fieldType, data)
			milestone.Timestamp = protowire.DecodeZigZag(value)
			return n, err
		case milestoneInclusionMerkleRootField:
			hash, n, err := ConsumeHash(fieldType, data)
			milestone.InclusionMerkleRoot = hash
			return n, err
		case milestoneAppliedMerkleRootField:
			hash, n, err := ConsumeHash(fieldType, data)
			milestone.AppliedMerkleRoot = hash
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return milestone, nil
}

func deserializeTaggedData(data []byte) (*externalapi.DomainTaggedData, error) {
	taggedData := &externalapi.DomainTaggedData{Tag: []byte{}, Data: []byte{}}
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case taggedDataTagField:
			value, n, err := ConsumeCopiedBytes(fieldType, data)
			taggedData.Tag = value
			return n, err
		case taggedDataDataField:
			value, n, err := ConsumeCopiedBytes(fieldType, data)
			taggedData.Data = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return taggedData, nil
}
