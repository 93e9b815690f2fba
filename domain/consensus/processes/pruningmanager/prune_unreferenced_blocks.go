package pruningmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
)

// PruneUnreferencedBlocks evicts the blocks that arrived at or before
// targetIndex and were never referenced by a milestone, together with
// their future cone
func (pm *pruningManager) PruneUnreferencedBlocks(stagingArea *model.StagingArea,
	targetIndex externalapi.MilestoneIndex, result *externalapi.PruningResult) error {

	unreferencedBlocks, err := pm.unreferencedBlockStore.BlocksUpToIndex(pm.databaseContext, targetIndex)
	if err != nil {
		return err
	}
	if len(unreferencedBlocks) == 0 {
		return nil
	}

	startHashes := make([]*externalapi.DomainHash, 0, len(unreferencedBlocks))
	for _, unreferencedBlock := range unreferencedBlocks {
		startHashes = append(startHashes, unreferencedBlock.BlockHash)
	}

	condition := func(blockHash *externalapi.DomainHash) (model.TraversalDecision, error) {
		exists, err := pm.blockStore.HasBlock(pm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		if !exists {
			return model.TraversalSkip, nil
		}
		isConfirmed, err := pm.blockConfirmationStore.Has(pm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		if isConfirmed {
			return model.TraversalSkip, nil
		}
		return model.TraversalContinue, nil
	}

	iterator := pm.dagTraversalManager.FutureConeBFS(stagingArea, startHashes, condition)
	defer iterator.Close()

	evicted := hashset.New()
	for ok := iterator.First(); ok; ok = iterator.Next() {
		blockHash, err := iterator.Get()
		if err != nil {
			return err
		}
		evicted.Add(blockHash)
	}

	for _, blockHash := range evicted.ToSlice() {
		err = pm.evictBlock(stagingArea, blockHash, evicted, result)
		if err != nil {
			return err
		}
		result.PrunedUnreferencedBlocks++
	}

	// Index records of blocks that were already evicted some other way
	for _, unreferencedBlock := range unreferencedBlocks {
		if !evicted.Contains(unreferencedBlock.BlockHash) {
			pm.unreferencedBlockStore.Delete(stagingArea, unreferencedBlock.ArrivalLedgerIndex,
				unreferencedBlock.BlockHash)
		}
	}

	log.Debugf("Evicted %d unreferenced blocks that arrived up to index %d", evicted.Length(), targetIndex)
	return nil
}
