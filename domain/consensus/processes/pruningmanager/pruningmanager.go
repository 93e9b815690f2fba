package pruningmanager

import (
	"fmt"

	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// pruningManager resolves and manages the current pruning index
type pruningManager struct {
	databaseContext model.DBReader

	enabled             bool
	pruningDepth        externalapi.MilestoneIndex
	minMilestonesToKeep externalapi.MilestoneIndex

	dagTraversalManager model.DAGTraversalManager

	blockStore             model.BlockStore
	blockStatusStore       model.BlockStatusStore
	blockRelationStore     model.BlockRelationStore
	blockConfirmationStore model.BlockConfirmationStore
	solidEntryPointStore   model.SolidEntryPointStore
	unreferencedBlockStore model.UnreferencedBlockStore
	milestoneStore         model.MilestoneStore
	milestoneDiffStore     model.MilestoneDiffStore
	pruningStore           model.PruningStore
	utxoStore              model.UTXOStore
}

// New instantiates a new PruningManager
func New(
	databaseContext model.DBReader,

	enabled bool,
	pruningDepth externalapi.MilestoneIndex,
	minMilestonesToKeep externalapi.MilestoneIndex,

	dagTraversalManager model.DAGTraversalManager,

	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	blockRelationStore model.BlockRelationStore,
	blockConfirmationStore model.BlockConfirmationStore,
	solidEntryPointStore model.SolidEntryPointStore,
	unreferencedBlockStore model.UnreferencedBlockStore,
	milestoneStore model.MilestoneStore,
	milestoneDiffStore model.MilestoneDiffStore,
	pruningStore model.PruningStore,
	utxoStore model.UTXOStore,
) model.PruningManager {

	return &pruningManager{
		databaseContext: databaseContext,

		enabled:             enabled,
		pruningDepth:        pruningDepth,
		minMilestonesToKeep: minMilestonesToKeep,

		dagTraversalManager: dagTraversalManager,

		blockStore:             blockStore,
		blockStatusStore:       blockStatusStore,
		blockRelationStore:     blockRelationStore,
		blockConfirmationStore: blockConfirmationStore,
		solidEntryPointStore:   solidEntryPointStore,
		unreferencedBlockStore: unreferencedBlockStore,
		milestoneStore:         milestoneStore,
		milestoneDiffStore:     milestoneDiffStore,
		pruningStore:           pruningStore,
		utxoStore:              utxoStore,
	}
}

// PruningTarget returns the index up to which the database may be pruned.
// A non-empty skipReason means this cycle should not prune at all.
func (pm *pruningManager) PruningTarget(stagingArea *model.StagingArea) (
	targetIndex externalapi.MilestoneIndex, skipReason string, err error) {

	if !pm.enabled {
		return 0, "pruning is disabled", nil
	}
	if pm.pruningDepth < pm.minMilestonesToKeep {
		return 0, fmt.Sprintf("the pruning depth %d is below the minimum of %d milestones to keep",
			pm.pruningDepth, pm.minMilestonesToKeep), nil
	}

	ledgerIndex, err := pm.utxoStore.LedgerIndex(pm.databaseContext, stagingArea)
	if err != nil {
		return 0, "", err
	}
	if ledgerIndex <= pm.pruningDepth {
		return 0, fmt.Sprintf("the ledger index %d is not above the pruning depth %d",
			ledgerIndex, pm.pruningDepth), nil
	}
	targetIndex = ledgerIndex - pm.pruningDepth

	pruningIndex, err := pm.pruningStore.PruningIndex(pm.databaseContext, stagingArea)
	if err != nil {
		return 0, "", err
	}
	if targetIndex <= pruningIndex {
		return 0, fmt.Sprintf("already pruned up to index %d", pruningIndex), nil
	}
	return targetIndex, "", nil
}
