package merkle

import (
	"math/bits"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
)

const (
	leafHashPrefix = 0x00
	nodeHashPrefix = 0x01
)

// CalculateMerkleRoot computes the merkle root of the given hashes in the
// given order. Leaves and inner nodes are hashed with distinct one-byte
// prefixes, and a list of n elements is split at the largest power of two
// smaller than n. The root of an empty list is the hash of no input.
func CalculateMerkleRoot(hashList []*externalapi.DomainHash) *externalapi.DomainHash {
	if len(hashList) == 0 {
		return hashes.NewMerkleHashWriter().Finalize()
	}
	return merkleRoot(hashList)
}

func merkleRoot(hashList []*externalapi.DomainHash) *externalapi.DomainHash {
	if len(hashList) == 1 {
		return leafHash(hashList[0])
	}
	split := largestPowerOfTwoBelow(len(hashList))
	return nodeHash(merkleRoot(hashList[:split]), merkleRoot(hashList[split:]))
}

func leafHash(hash *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewMerkleHashWriter()
	writer.InfallibleWrite([]byte{leafHashPrefix})
	writer.InfallibleWrite(hash.ByteSlice())
	return writer.Finalize()
}

func nodeHash(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewMerkleHashWriter()
	writer.InfallibleWrite([]byte{nodeHashPrefix})
	writer.InfallibleWrite(left.ByteSlice())
	writer.InfallibleWrite(right.ByteSlice())
	return writer.Finalize()
}

// largestPowerOfTwoBelow returns the largest power of two strictly
// smaller than n. n must be at least 2.
func largestPowerOfTwoBelow(n int) int {
	return 1 << (bits.Len(uint(n-1)) - 1)
}
