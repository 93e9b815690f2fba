package solidentrypointstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type solidEntryPointStagingShard struct {
	store    *solidEntryPointStore
	toAdd    map[externalapi.DomainHash]*externalapi.SolidEntryPoint
	toDelete map[externalapi.DomainHash]struct{}
}

func (seps *solidEntryPointStore) stagingShard(stagingArea *model.StagingArea) *solidEntryPointStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDSolidEntryPoint, func() model.StagingShard {
		return &solidEntryPointStagingShard{
			store:    seps,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.SolidEntryPoint),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*solidEntryPointStagingShard)
}

func (sepss *solidEntryPointStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, solidEntryPoint := range sepss.toAdd {
		hash := hash
		err := dbTx.Put(sepss.store.hashAsKey(&hash), sepss.store.serializeSolidEntryPoint(solidEntryPoint))
		if err != nil {
			return err
		}
		sepss.store.cache.Add(&hash, solidEntryPoint)
	}

	for hash := range sepss.toDelete {
		hash := hash
		err := dbTx.Delete(sepss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		sepss.store.cache.Remove(&hash)
	}

	return nil
}

func (sepss *solidEntryPointStagingShard) isStaged() bool {
	return len(sepss.toAdd) != 0 || len(sepss.toDelete) != 0
}
