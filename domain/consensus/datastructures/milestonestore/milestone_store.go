package milestonestore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

var bucket = database.MakeBucket([]byte("milestones"))

// milestoneStore maps confirmed milestone indexes to their blocks
type milestoneStore struct{}

// New instantiates a new MilestoneStore
func New() model.MilestoneStore {
	return &milestoneStore{}
}

func (ms *milestoneStore) Stage(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	milestoneHash *externalapi.DomainHash) {

	stagingShard := ms.stagingShard(stagingArea)
	delete(stagingShard.toDelete, index)
	stagingShard.toAdd[index] = milestoneHash
}

func (ms *milestoneStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ms.stagingShard(stagingArea).isStaged()
}

func (ms *milestoneStore) MilestoneHash(dbContext model.DBReader, stagingArea *model.StagingArea,
	index externalapi.MilestoneIndex) (*externalapi.DomainHash, error) {

	stagingShard := ms.stagingShard(stagingArea)

	if milestoneHash, ok := stagingShard.toAdd[index]; ok {
		return milestoneHash, nil
	}

	if _, ok := stagingShard.toDelete[index]; ok {
		return nil, database.ErrNotFound
	}

	hashBytes, err := dbContext.Get(ms.indexAsKey(index))
	if err != nil {
		return nil, err
	}
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}

func (ms *milestoneStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	index externalapi.MilestoneIndex) (bool, error) {

	stagingShard := ms.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[index]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toDelete[index]; ok {
		return false, nil
	}

	return dbContext.Has(ms.indexAsKey(index))
}

func (ms *milestoneStore) Delete(stagingArea *model.StagingArea, index externalapi.MilestoneIndex) {
	stagingShard := ms.stagingShard(stagingArea)

	delete(stagingShard.toAdd, index)
	stagingShard.toDelete[index] = struct{}{}
}

func (ms *milestoneStore) indexAsKey(index externalapi.MilestoneIndex) model.DBKey {
	return bucket.Key(binaryserialization.SerializeMilestoneIndex(index))
}
