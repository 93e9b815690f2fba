package milestonestore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type milestoneStagingShard struct {
	store    *milestoneStore
	toAdd    map[externalapi.MilestoneIndex]*externalapi.DomainHash
	toDelete map[externalapi.MilestoneIndex]struct{}
}

func (ms *milestoneStore) stagingShard(stagingArea *model.StagingArea) *milestoneStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDMilestone, func() model.StagingShard {
		return &milestoneStagingShard{
			store:    ms,
			toAdd:    make(map[externalapi.MilestoneIndex]*externalapi.DomainHash),
			toDelete: make(map[externalapi.MilestoneIndex]struct{}),
		}
	}).(*milestoneStagingShard)
}

func (mss *milestoneStagingShard) Commit(dbTx model.DBTransaction) error {
	for index, milestoneHash := range mss.toAdd {
		err := dbTx.Put(mss.store.indexAsKey(index), milestoneHash.ByteSlice())
		if err != nil {
			return err
		}
	}

	for index := range mss.toDelete {
		err := dbTx.Delete(mss.store.indexAsKey(index))
		if err != nil {
			return err
		}
	}

	return nil
}

func (mss *milestoneStagingShard) isStaged() bool {
	return len(mss.toAdd) != 0 || len(mss.toDelete) != 0
}
