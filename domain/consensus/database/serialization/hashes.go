package serialization

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const hashesHashField protowire.Number = 1

// HashesToDBHashes serializes a list of hashes
func HashesToDBHashes(hashes []*externalapi.DomainHash) []byte {
	var b []byte
	for _, hash := range hashes {
		b = wire.AppendHashField(b, hashesHashField, hash)
	}
	return b
}

// DBHashesToHashes deserializes a list of hashes
func DBHashesToHashes(serialized []byte) ([]*externalapi.DomainHash, error) {
	hashes := []*externalapi.DomainHash{}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		if number != hashesHashField {
			return -1, nil
		}
		hash, n, err := wire.ConsumeHash(fieldType, b)
		if err != nil {
			return 0, err
		}
		hashes = append(hashes, hash)
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}
