package hashes

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func TestLessAndSort(t *testing.T) {
	low := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0x01, 0xff})
	mid := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0x02})
	high := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0x02, 0x01})

	if !Less(low, mid) || !Less(mid, high) || Less(high, low) {
		t.Fatalf("TestLessAndSort: Less does not follow lexicographic byte order")
	}
	if Compare(mid, externalapi.NewDomainHashFromByteArray(mid.ByteArray())) != 0 {
		t.Fatalf("TestLessAndSort: a hash does not compare equal to its copy")
	}

	hashes := []*externalapi.DomainHash{high, low, mid}
	if IsStrictlyAscending(hashes) {
		t.Fatalf("TestLessAndSort: unsorted hashes reported as ascending")
	}
	Sort(hashes)
	if !externalapi.HashesEqual(hashes, []*externalapi.DomainHash{low, mid, high}) {
		t.Fatalf("TestLessAndSort: Sort returned %v", ToStrings(hashes))
	}
	if !IsStrictlyAscending(hashes) {
		t.Fatalf("TestLessAndSort: sorted hashes reported as not ascending")
	}
	if IsStrictlyAscending([]*externalapi.DomainHash{low, low}) {
		t.Fatalf("TestLessAndSort: duplicate hashes reported as strictly ascending")
	}
}

func TestDomainSeparation(t *testing.T) {
	payload := []byte("payload")
	writers := map[string]HashWriter{
		"block":       NewBlockHashWriter(),
		"transaction": NewTransactionIDWriter(),
		"signing":     NewTransactionSigningHashWriter(),
		"address":     NewAddressHashWriter(),
		"merkle":      NewMerkleHashWriter(),
	}
	seen := make(map[externalapi.DomainHash]string)
	for name, writer := range writers {
		writer.InfallibleWrite(payload)
		hash := writer.Finalize()
		if other, ok := seen[*hash]; ok {
			t.Fatalf("TestDomainSeparation: %s and %s produced the same hash", name, other)
		}
		seen[*hash] = name
	}
}
