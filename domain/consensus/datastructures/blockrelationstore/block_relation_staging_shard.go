package blockrelationstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type blockRelationStagingShard struct {
	store    *blockRelationStore
	toAdd    map[externalapi.DomainHash][]*externalapi.DomainHash
	toDelete map[externalapi.DomainHash]struct{}
}

func (brs *blockRelationStore) stagingShard(stagingArea *model.StagingArea) *blockRelationStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockRelation, func() model.StagingShard {
		return &blockRelationStagingShard{
			store:    brs,
			toAdd:    make(map[externalapi.DomainHash][]*externalapi.DomainHash),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockRelationStagingShard)
}

func (brss *blockRelationStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, children := range brss.toAdd {
		hash := hash
		err := dbTx.Put(brss.store.hashAsKey(&hash), brss.store.serializeChildren(children))
		if err != nil {
			return err
		}
		brss.store.cache.Add(&hash, children)
	}

	for hash := range brss.toDelete {
		hash := hash
		err := dbTx.Delete(brss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		brss.store.cache.Remove(&hash)
	}

	return nil
}

func (brss *blockRelationStagingShard) isStaged() bool {
	return len(brss.toAdd) != 0 || len(brss.toDelete) != 0
}
