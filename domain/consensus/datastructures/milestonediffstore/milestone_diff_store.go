package milestonediffstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

var bucket = database.MakeBucket([]byte("milestone-diffs"))

// milestoneDiffStore keeps the ledger mutations of every retained
// milestone. Delta snapshots are built out of it.
type milestoneDiffStore struct{}

// New instantiates a new MilestoneDiffStore
func New() model.MilestoneDiffStore {
	return &milestoneDiffStore{}
}

func (mds *milestoneDiffStore) Stage(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	mutations *externalapi.UTXOMutations) {

	stagingShard := mds.stagingShard(stagingArea)
	delete(stagingShard.toDelete, index)
	stagingShard.toAdd[index] = mutations
}

func (mds *milestoneDiffStore) IsStaged(stagingArea *model.StagingArea) bool {
	return mds.stagingShard(stagingArea).isStaged()
}

func (mds *milestoneDiffStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea,
	index externalapi.MilestoneIndex) (*externalapi.UTXOMutations, error) {

	stagingShard := mds.stagingShard(stagingArea)

	if mutations, ok := stagingShard.toAdd[index]; ok {
		return mutations, nil
	}

	if _, ok := stagingShard.toDelete[index]; ok {
		return nil, database.ErrNotFound
	}

	mutationsBytes, err := dbContext.Get(mds.indexAsKey(index))
	if err != nil {
		return nil, err
	}
	return serialization.DBUTXOMutationsToUTXOMutations(mutationsBytes)
}

func (mds *milestoneDiffStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	index externalapi.MilestoneIndex) (bool, error) {

	stagingShard := mds.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[index]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toDelete[index]; ok {
		return false, nil
	}

	return dbContext.Has(mds.indexAsKey(index))
}

func (mds *milestoneDiffStore) Delete(stagingArea *model.StagingArea, index externalapi.MilestoneIndex) {
	stagingShard := mds.stagingShard(stagingArea)

	delete(stagingShard.toAdd, index)
	stagingShard.toDelete[index] = struct{}{}
}

func (mds *milestoneDiffStore) serializeMutations(mutations *externalapi.UTXOMutations) []byte {
	return serialization.UTXOMutationsToDBUTXOMutations(mutations)
}

func (mds *milestoneDiffStore) indexAsKey(index externalapi.MilestoneIndex) model.DBKey {
	return bucket.Key(binaryserialization.SerializeMilestoneIndex(index))
}
