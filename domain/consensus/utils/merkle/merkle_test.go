package merkle

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
)

func hashFromByte(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

func TestLargestPowerOfTwoBelow(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{n: 2, expected: 1},
		{n: 3, expected: 2},
		{n: 4, expected: 2},
		{n: 5, expected: 4},
		{n: 8, expected: 4},
		{n: 9, expected: 8},
		{n: 1000, expected: 512},
	}
	for _, test := range tests {
		result := largestPowerOfTwoBelow(test.n)
		if result != test.expected {
			t.Fatalf("largestPowerOfTwoBelow(%d): expected %d but got %d", test.n, test.expected, result)
		}
	}
}

func TestCalculateMerkleRoot(t *testing.T) {
	a, b, c := hashFromByte(1), hashFromByte(2), hashFromByte(3)

	empty := CalculateMerkleRoot(nil)
	if !empty.Equal(hashes.NewMerkleHashWriter().Finalize()) {
		t.Fatalf("TestCalculateMerkleRoot: the root of an empty list is not the hash of no input")
	}

	if !CalculateMerkleRoot([]*externalapi.DomainHash{a}).Equal(leafHash(a)) {
		t.Fatalf("TestCalculateMerkleRoot: the root of a single element is not its leaf hash")
	}

	expected := nodeHash(nodeHash(leafHash(a), leafHash(b)), leafHash(c))
	root := CalculateMerkleRoot([]*externalapi.DomainHash{a, b, c})
	if !root.Equal(expected) {
		t.Fatalf("TestCalculateMerkleRoot: expected %s but got %s", expected, root)
	}

	reordered := CalculateMerkleRoot([]*externalapi.DomainHash{b, a, c})
	if reordered.Equal(root) {
		t.Fatalf("TestCalculateMerkleRoot: the root does not commit to the order")
	}

	// A leaf must never collide with an inner node built from the same bytes
	if leafHash(a).Equal(nodeHash(a, a)) {
		t.Fatalf("TestCalculateMerkleRoot: leaf and node hashes are not separated")
	}
}
