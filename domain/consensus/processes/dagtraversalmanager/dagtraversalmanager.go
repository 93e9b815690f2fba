package dagtraversalmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// dagTraversalManager exposes methods for travering blocks
// in the tangle
type dagTraversalManager struct {
	databaseContext model.DBReader

	blockStore         model.BlockStore
	blockRelationStore model.BlockRelationStore
}

// New instantiates a new DAGTraversalManager
func New(
	databaseContext model.DBReader,
	blockStore model.BlockStore,
	blockRelationStore model.BlockRelationStore) model.DAGTraversalManager {

	return &dagTraversalManager{
		databaseContext:    databaseContext,
		blockStore:         blockStore,
		blockRelationStore: blockRelationStore,
	}
}

func (dtm *dagTraversalManager) parents(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	block, err := dtm.blockStore.Block(dtm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	return block.Parents, nil
}

func (dtm *dagTraversalManager) children(stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	return dtm.blockRelationStore.Children(dtm.databaseContext, stagingArea, blockHash)
}
