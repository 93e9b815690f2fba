package blockconfirmationstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type blockConfirmationStagingShard struct {
	store    *blockConfirmationStore
	toAdd    map[externalapi.DomainHash]*externalapi.BlockConfirmation
	toDelete map[externalapi.DomainHash]struct{}
}

func (bcs *blockConfirmationStore) stagingShard(stagingArea *model.StagingArea) *blockConfirmationStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDBlockConfirmation, func() model.StagingShard {
		return &blockConfirmationStagingShard{
			store:    bcs,
			toAdd:    make(map[externalapi.DomainHash]*externalapi.BlockConfirmation),
			toDelete: make(map[externalapi.DomainHash]struct{}),
		}
	}).(*blockConfirmationStagingShard)
}

func (bcss *blockConfirmationStagingShard) Commit(dbTx model.DBTransaction) error {
	for hash, confirmation := range bcss.toAdd {
		hash := hash
		err := dbTx.Put(bcss.store.hashAsKey(&hash), bcss.store.serializeConfirmation(confirmation))
		if err != nil {
			return err
		}
		bcss.store.cache.Add(&hash, confirmation)
	}

	for hash := range bcss.toDelete {
		hash := hash
		err := dbTx.Delete(bcss.store.hashAsKey(&hash))
		if err != nil {
			return err
		}
		bcss.store.cache.Remove(&hash)
	}

	return nil
}

func (bcss *blockConfirmationStagingShard) isStaged() bool {
	return len(bcss.toAdd) != 0 || len(bcss.toDelete) != 0
}
