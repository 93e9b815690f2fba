package hashes

import (
	"bytes"
	"sort"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// Compare compares two hashes in lexicographic byte order and returns:
//
//	-1 if a <  b
//	 0 if a == b
//	+1 if a >  b
func Compare(a, b *externalapi.DomainHash) int {
	return bytes.Compare(a.ByteSlice(), b.ByteSlice())
}

// Less returns true iff hash a is less than hash b
func Less(a, b *externalapi.DomainHash) bool {
	return Compare(a, b) < 0
}

// Sort sorts hashes in ascending byte order, in place
func Sort(hashes []*externalapi.DomainHash) {
	sort.Slice(hashes, func(i, j int) bool {
		return Less(hashes[i], hashes[j])
	})
}

// IsStrictlyAscending returns whether every hash is smaller than the next,
// which also means the hashes are unique
func IsStrictlyAscending(hashes []*externalapi.DomainHash) bool {
	for i := 1; i < len(hashes); i++ {
		if !Less(hashes[i-1], hashes[i]) {
			return false
		}
	}
	return true
}
