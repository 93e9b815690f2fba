package blockrelationstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/lrucache"
)

var bucket = database.MakeBucket([]byte("block-children"))

// blockRelationStore represents a store of the children of blocks
type blockRelationStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new BlockRelationStore
func New(cacheSize int, preallocate bool) model.BlockRelationStore {
	return &blockRelationStore{
		cache: lrucache.New(cacheSize, preallocate),
	}
}

// StageChildren replaces the children list of blockHash. An empty list
// deletes it.
func (brs *blockRelationStore) StageChildren(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	children []*externalapi.DomainHash) {

	if len(children) == 0 {
		brs.Delete(stagingArea, blockHash)
		return
	}

	stagingShard := brs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = externalapi.CloneHashes(children)
}

func (brs *blockRelationStore) IsStaged(stagingArea *model.StagingArea) bool {
	return brs.stagingShard(stagingArea).isStaged()
}

// Children returns the children of blockHash in the order they were
// recorded. A block nothing references yet has no children.
func (brs *blockRelationStore) Children(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	stagingShard := brs.stagingShard(stagingArea)

	if children, ok := stagingShard.toAdd[*blockHash]; ok {
		return externalapi.CloneHashes(children), nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return []*externalapi.DomainHash{}, nil
	}

	if children, ok := brs.cache.Get(blockHash); ok {
		return externalapi.CloneHashes(children.([]*externalapi.DomainHash)), nil
	}

	childrenBytes, err := dbContext.Get(brs.hashAsKey(blockHash))
	if database.IsNotFoundError(err) {
		return []*externalapi.DomainHash{}, nil
	}
	if err != nil {
		return nil, err
	}

	children, err := serialization.DBHashesToHashes(childrenBytes)
	if err != nil {
		return nil, err
	}
	brs.cache.Add(blockHash, children)
	return externalapi.CloneHashes(children), nil
}

// Delete deletes the children list of blockHash
func (brs *blockRelationStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := brs.stagingShard(stagingArea)

	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (brs *blockRelationStore) serializeChildren(children []*externalapi.DomainHash) []byte {
	return serialization.HashesToDBHashes(children)
}

func (brs *blockRelationStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bucket.Key(hash.ByteSlice())
}
