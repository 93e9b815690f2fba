package unreferencedblockstore

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// Keys are the big-endian arrival ledger index followed by the block hash,
// so a cursor walks the blocks in arrival order.
var bucket = database.MakeBucket([]byte("unreferenced-blocks"))

const keySize = 4 + externalapi.DomainHashSize

type unreferencedBlockStore struct{}

// New instantiates a new UnreferencedBlockStore
func New() model.UnreferencedBlockStore {
	return &unreferencedBlockStore{}
}

// Stage records that blockHash arrived at arrivalLedgerIndex and is not
// referenced by any milestone
func (ubs *unreferencedBlockStore) Stage(stagingArea *model.StagingArea, arrivalLedgerIndex externalapi.MilestoneIndex,
	blockHash *externalapi.DomainHash) {

	stagingShard := ubs.stagingShard(stagingArea)
	suffix := string(keySuffix(arrivalLedgerIndex, blockHash))
	delete(stagingShard.toDelete, suffix)
	stagingShard.toAdd[suffix] = struct{}{}
}

// Delete removes the record of blockHash. It's called both when a milestone
// references the block and when the block is pruned.
func (ubs *unreferencedBlockStore) Delete(stagingArea *model.StagingArea, arrivalLedgerIndex externalapi.MilestoneIndex,
	blockHash *externalapi.DomainHash) {

	stagingShard := ubs.stagingShard(stagingArea)
	suffix := string(keySuffix(arrivalLedgerIndex, blockHash))
	delete(stagingShard.toAdd, suffix)
	stagingShard.toDelete[suffix] = struct{}{}
}

func (ubs *unreferencedBlockStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ubs.stagingShard(stagingArea).isStaged()
}

// BlocksUpToIndex returns the committed records whose arrival ledger index
// is at most maxArrivalLedgerIndex, in key order
func (ubs *unreferencedBlockStore) BlocksUpToIndex(dbContext model.DBReader,
	maxArrivalLedgerIndex externalapi.MilestoneIndex) ([]*model.UnreferencedBlock, error) {

	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var blocks []*model.UnreferencedBlock
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		block, err := parseKeySuffix(key.Suffix())
		if err != nil {
			return nil, err
		}
		if block.ArrivalLedgerIndex > maxArrivalLedgerIndex {
			break
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func keySuffix(arrivalLedgerIndex externalapi.MilestoneIndex, blockHash *externalapi.DomainHash) []byte {
	suffix := make([]byte, 0, keySize)
	suffix = append(suffix, binaryserialization.SerializeMilestoneIndex(arrivalLedgerIndex)...)
	return append(suffix, blockHash.ByteSlice()...)
}

func parseKeySuffix(suffix []byte) (*model.UnreferencedBlock, error) {
	if len(suffix) != keySize {
		return nil, errors.Errorf("unreferenced block key has size %d instead of %d", len(suffix), keySize)
	}
	arrivalLedgerIndex, err := binaryserialization.DeserializeMilestoneIndex(suffix[:4])
	if err != nil {
		return nil, err
	}
	blockHash, err := externalapi.NewDomainHashFromByteSlice(suffix[4:])
	if err != nil {
		return nil, err
	}
	return &model.UnreferencedBlock{
		ArrivalLedgerIndex: arrivalLedgerIndex,
		BlockHash:          blockHash,
	}, nil
}
