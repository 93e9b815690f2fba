package blockstatusstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type blockStatusStagingShard struct {
	store    *blockStatusStore
	toAdd    map[externalapi.DomainHash]*externalapi.BlockStatusData
	toDelete map[externalapi.DomainHash]struct{}
}

func (bss *blockStatusStore) stagingShard(stagingArea *model.StagingArea) *blockStatusStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockStatus, func() model.StagingShard {
		return &blockStatusStagingShard{
			store:    bss,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.BlockStatusData),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockStatusStagingShard)
}

func (bsss *blockStatusStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, statusData := range bsss.toAdd {
		hash := hash
		err := dbTx.Put(bsss.store.hashAsKey(&hash), bsss.store.serializeBlockStatusData(statusData))
		if err != nil {
			return err
		}
		bsss.store.cache.Add(&hash, statusData)
	}

	for hash := range bsss.toDelete {
		hash := hash
		err := dbTx.Delete(bsss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		bsss.store.cache.Remove(&hash)
	}

	return nil
}

func (bsss *blockStatusStagingShard) isStaged() bool {
	return len(bsss.toAdd) != 0 || len(bsss.toDelete) != 0
}
