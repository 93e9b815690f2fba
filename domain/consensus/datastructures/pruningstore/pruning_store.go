package pruningstore

import (
	"sync"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

var pruningIndexKey = database.MakeBucket(nil).Key([]byte("pruning-index"))

// pruningStore represents a store for the current pruning index
type pruningStore struct {
	lock               sync.Mutex
	pruningIndexCached *externalapi.MilestoneIndex
}

// New instantiates a new PruningStore
func New() model.PruningStore {
	return &pruningStore{}
}

// StagePruningIndex stages the highest milestone index whose history was
// evicted
func (ps *pruningStore) StagePruningIndex(stagingArea *model.StagingArea, index externalapi.MilestoneIndex) {
	stagingShard := ps.stagingShard(stagingArea)
	stagingShard.newPruningIndex = &index
}

func (ps *pruningStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ps.stagingShard(stagingArea).isStaged()
}

// PruningIndex returns the current pruning index. A database that was never
// pruned has pruning index 0.
func (ps *pruningStore) PruningIndex(dbContext model.DBReader, stagingArea *model.StagingArea) (externalapi.MilestoneIndex, error) {
	stagingShard := ps.stagingShard(stagingArea)

	if stagingShard.newPruningIndex != nil {
		return *stagingShard.newPruningIndex, nil
	}

	ps.lock.Lock()
	defer ps.lock.Unlock()

	if ps.pruningIndexCached != nil {
		return *ps.pruningIndexCached, nil
	}

	indexBytes, err := dbContext.Get(pruningIndexKey)
	if database.IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	index, err := binaryserialization.DeserializeMilestoneIndex(indexBytes)
	if err != nil {
		return 0, err
	}
	ps.pruningIndexCached = &index
	return index, nil
}

func (ps *pruningStore) setPruningIndexCached(index externalapi.MilestoneIndex) {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	ps.pruningIndexCached = &index
}
