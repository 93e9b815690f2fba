package milestonediffstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type milestoneDiffStagingShard struct {
	store    *milestoneDiffStore
	toAdd    map[externalapi.MilestoneIndex]*externalapi.UTXOMutations
	toDelete map[externalapi.MilestoneIndex]struct{}
}

func (mds *milestoneDiffStore) stagingShard(stagingArea *model.StagingArea) *milestoneDiffStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDMilestoneDiff, func() model.StagingShard {
		return &milestoneDiffStagingShard{
			store:    mds,
			toAdd:    make(map[externalapi.MilestoneIndex]*externalapi.UTXOMutations),
			toDelete: make(map[externalapi.MilestoneIndex]struct{}),
		}
	}).(*milestoneDiffStagingShard)
}

func (mdss *milestoneDiffStagingShard) Commit(dbTx model.DBTransaction) error {
	for index, mutations := range mdss.toAdd {
		err := dbTx.Put(mdss.store.indexAsKey(index), mdss.store.serializeMutations(mutations))
		if err != nil {
			return err
		}
	}

	for index := range mdss.toDelete {
		err := dbTx.Delete(mdss.store.indexAsKey(index))
		if err != nil {
			return err
		}
	}

	return nil
}

func (mdss *milestoneDiffStagingShard) isStaged() bool {
	return len(mdss.toAdd) != 0 || len(mdss.toDelete) != 0
}
