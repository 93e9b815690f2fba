package consensushashing

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
)

// BlockHash returns the given block's hash: a keyed blake2b over its
// canonical encoding. Since the parents are part of the encoding, a block
// can never be an ancestor of itself.
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	serializedBlock, err := serialization.SerializeBlock(block)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. a block payload is always one of the known types"))
	}

	writer := hashes.NewBlockHashWriter()
	writer.InfallibleWrite(serializedBlock)
	return writer.Finalize()
}
