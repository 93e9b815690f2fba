package binaryserialization

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// MilestoneIndexSize is the size of a serialized milestone index
const MilestoneIndexSize = 4

// SerializeMilestoneIndex serializes index in big-endian, so serialized
// indexes sort in numeric order
func SerializeMilestoneIndex(index externalapi.MilestoneIndex) []byte {
	serialized := make([]byte, MilestoneIndexSize)
	binary.BigEndian.PutUint32(serialized, uint32(index))
	return serialized
}

// DeserializeMilestoneIndex deserializes an index serialized by
// SerializeMilestoneIndex
func DeserializeMilestoneIndex(serialized []byte) (externalapi.MilestoneIndex, error) {
	if len(serialized) != MilestoneIndexSize {
		return 0, errors.Errorf("milestone index expected to be in length of %d but got %d",
			MilestoneIndexSize, len(serialized))
	}
	return externalapi.MilestoneIndex(binary.BigEndian.Uint32(serialized)), nil
}

// SerializeUint64 serializes value in little-endian
func SerializeUint64(value uint64) []byte {
	serialized := make([]byte, 8)
	binary.LittleEndian.PutUint64(serialized, value)
	return serialized
}

// DeserializeUint64 deserializes a value serialized by SerializeUint64
func DeserializeUint64(serialized []byte) (uint64, error) {
	if len(serialized) != 8 {
		return 0, errors.Errorf("uint64 expected to be in length of 8 but got %d", len(serialized))
	}
	return binary.LittleEndian.Uint64(serialized), nil
}
