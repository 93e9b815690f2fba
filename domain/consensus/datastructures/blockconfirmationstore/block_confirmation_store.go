package blockconfirmationstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/lrucache"
)

var bucket = database.MakeBucket([]byte("block-confirmations"))

// blockConfirmationStore represents a store of the white-flag outcome of
// every referenced block
type blockConfirmationStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new BlockConfirmationStore
func New(cacheSize int, preallocate bool) model.BlockConfirmationStore {
	return &blockConfirmationStore{
		cache: lrucache.New(cacheSize, preallocate),
	}
}

// Stage stages the confirmation of blockHash
func (bcs *blockConfirmationStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	confirmation *externalapi.BlockConfirmation) {

	stagingShard := bcs.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	stagingShard.toAdd[*blockHash] = confirmation.Clone()
}

func (bcs *blockConfirmationStore) IsStaged(stagingArea *model.StagingArea) bool {
	return bcs.stagingShard(stagingArea).isStaged()
}

// Get returns the confirmation of blockHash
func (bcs *blockConfirmationStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.BlockConfirmation, error) {

	stagingShard := bcs.stagingShard(stagingArea)

	if confirmation, ok := stagingShard.toAdd[*blockHash]; ok {
		return confirmation.Clone(), nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, database.ErrNotFound
	}

	if confirmation, ok := bcs.cache.Get(blockHash); ok {
		return confirmation.(*externalapi.BlockConfirmation).Clone(), nil
	}

	confirmationBytes, err := dbContext.Get(bcs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	confirmation, err := serialization.DBBlockConfirmationToBlockConfirmation(confirmationBytes)
	if err != nil {
		return nil, err
	}
	bcs.cache.Add(blockHash, confirmation)
	return confirmation.Clone(), nil
}

// Has returns whether blockHash was referenced by a milestone
func (bcs *blockConfirmationStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := bcs.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if bcs.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(bcs.hashAsKey(blockHash))
}

// Delete deletes the confirmation of blockHash
func (bcs *blockConfirmationStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := bcs.stagingShard(stagingArea)

	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

func (bcs *blockConfirmationStore) serializeConfirmation(confirmation *externalapi.BlockConfirmation) []byte {
	return serialization.BlockConfirmationToDBBlockConfirmation(confirmation)
}

func (bcs *blockConfirmationStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bucket.Key(hash.ByteSlice())
}
