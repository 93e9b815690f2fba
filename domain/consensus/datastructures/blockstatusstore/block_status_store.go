package blockstatusstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/lrucache"
)

var bucket = database.MakeBucket([]byte("block-statuses"))

// blockStatusStore represents a store of BlockStatusData
type blockStatusStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new BlockStatusStore
func New(cacheSize int, preallocate bool) model.BlockStatusStore {
	return &blockStatusStore{
		cache: lrucache.New(cacheSize, preallocate),
	}
}

// Stage stages the given blockStatusData for the given blockHash
func (bss *blockStatusStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	blockStatusData *externalapi.BlockStatusData) {

	stagingShard := bss.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = blockStatusData.Clone()
}

func (bss *blockStatusStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bss.stagingShard(stagingArea).isStaged()
}

// Get gets the blockStatusData associated with the given blockHash
func (bss *blockStatusStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.BlockStatusData, error) {

	stagingShard := bss.stagingShard(stagingArea)

	if statusData, ok := stagingShard.toAdd[*blockHash]; ok {
		return statusData.Clone(), nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, database.ErrNotFound
	}

	if statusData, ok := bss.cache.Get(blockHash); ok {
		return statusData.(*externalapi.BlockStatusData).Clone(), nil
	}

	statusBytes, err := dbContext.Get(bss.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	statusData, err := serialization.DBBlockStatusDataToBlockStatusData(statusBytes)
	if err != nil {
		return nil, err
	}
	bss.cache.Add(blockHash, statusData)
	return statusData.Clone(), nil
}

// Exists returns true if the blockHash exists in the store
func (bss *blockStatusStore) Exists(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bss.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if bss.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bss.hashAsKey(blockHash))
}

// Delete deletes the blockStatusData associated with the given blockHash
func (bss *blockStatusStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bss.stagingShard(stagingArea)

	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (bss *blockStatusStore) serializeBlockStatusData(statusData *externalapi.BlockStatusData) []byte {
	return serialization.BlockStatusDataToDBBlockStatusData(statusData)
}

func (bss *blockStatusStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bucket.Key(hash.ByteSlice())
}
