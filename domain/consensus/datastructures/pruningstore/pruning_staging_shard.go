package pruningstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type pruningStagingShard struct {
	store *pruningStore

	newPruningIndex *externalapi.MilestoneIndex
}

func (ps *pruningStore) stagingShard(stagingArea *model.StagingArea) *pruningStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDPruning, func() model.StagingShard {
		return &pruningStagingShard{
			store: ps,
		}
	}).(*pruningStagingShard)
}

func (pss *pruningStagingShard) Commit(dbTx model.DBTransaction) error {
	if pss.newPruningIndex == nil {
		return nil
	}

	err := dbTx.Put(pruningIndexKey, binaryserialization.SerializeMilestoneIndex(*pss.newPruningIndex))
	if err != nil {
		return err
	}
	pss.store.setPruningIndexCached(*pss.newPruningIndex)
	return nil
}

func (pss *pruningStagingShard) isStaged() bool {
	return pss.newPruningIndex != nil
}
