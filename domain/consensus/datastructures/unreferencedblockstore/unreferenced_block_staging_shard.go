package unreferencedblockstore

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
)

type unreferencedBlockStagingShard struct {
	store    *unreferencedBlockStore
	toAdd    map[string]struct{}
	toDelete map[string]struct{}
}

func (ubs *unreferencedBlockStore) stagingShard(stagingArea *model.StagingArea) *unreferencedBlockStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDUnreferencedBlock, func() model.StagingShard {
		return &unreferencedBlockStagingShard{
			store:    ubs,
			toAdd:    make(map[string]struct{}),
			toDelete: make(map[string]struct{}),
		}
	}).(*unreferencedBlockStagingShard)
}

func (ubss *unreferencedBlockStagingShard) Commit(dbTx model.DBTransaction) error {
	for suffix := range ubss.toAdd {
		err := dbTx.Put(bucket.Key([]byte(suffix)), []byte{})
		if err != nil {
			return err
		}
	}

	for suffix := range ubss.toDelete {
		err := dbTx.Delete(bucket.Key([]byte(suffix)))
		if err != nil {
			return err
		}
	}

	return nil
}

func (ubss *unreferencedBlockStagingShard) isStaged() bool {
	return len(ubss.toAdd) != 0 || len(ubss.toDelete) != 0
}
