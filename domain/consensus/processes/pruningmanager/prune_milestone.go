package pruningmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
)

// PruneMilestone evicts the blocks confirmed by milestone `index` along
// with the ledger history it recorded. Blocks that still have a retained
// child become solid entry points.
func (pm *pruningManager) PruneMilestone(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	targetIndex externalapi.MilestoneIndex, result *externalapi.PruningResult) error {

	confirmedBlocks, err := pm.blocksConfirmedBy(stagingArea, index)
	if err != nil {
		return err
	}

	for _, blockHash := range confirmedBlocks.ToSlice() {
		children, err := pm.blockRelationStore.Children(pm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return err
		}
		retainedChildren := make([]*externalapi.DomainHash, 0, len(children))
		for _, child := range children {
			if !confirmedBlocks.Contains(child) {
				retainedChildren = append(retainedChildren, child)
			}
		}

		err = pm.evictBlock(stagingArea, blockHash, confirmedBlocks, result)
		if err != nil {
			return err
		}

		if len(retainedChildren) > 0 {
			pm.solidEntryPointStore.Stage(stagingArea, blockHash, &externalapi.SolidEntryPoint{
				ConfirmedIndex: index,
				PrunedAtIndex:  targetIndex,
			})
			pm.blockRelationStore.StageChildren(stagingArea, blockHash, retainedChildren)
			result.NewSolidEntryPoints++
		}
		result.PrunedBlocks++
	}

	err = pm.pruneMilestoneDiff(stagingArea, index, result)
	if err != nil {
		return err
	}

	pm.pruningStore.StagePruningIndex(stagingArea, index)
	result.PrunedMilestones++
	log.Debugf("Pruned milestone %d: %d blocks evicted", index, confirmedBlocks.Length())
	return nil
}

// blocksConfirmedBy returns the blocks whose confirmation record points at
// milestone `index`. A ledger that was advanced without the milestone block
// has none.
func (pm *pruningManager) blocksConfirmedBy(stagingArea *model.StagingArea,
	index externalapi.MilestoneIndex) (hashset.HashSet, error) {

	confirmedBlocks := hashset.New()

	milestoneHash, err := pm.milestoneStore.MilestoneHash(pm.databaseContext, stagingArea, index)
	if database.IsNotFoundError(err) {
		return confirmedBlocks, nil
	}
	if err != nil {
		return nil, err
	}

	condition := func(blockHash *externalapi.DomainHash) (model.TraversalDecision, error) {
		confirmation, err := pm.blockConfirmationStore.Get(pm.databaseContext, stagingArea, blockHash)
		if database.IsNotFoundError(err) {
			return model.TraversalSkip, nil
		}
		if err != nil {
			return 0, err
		}
		if confirmation.ReferencedByIndex != index {
			return model.TraversalSkip, nil
		}
		return model.TraversalContinue, nil
	}

	iterator := pm.dagTraversalManager.PastConeBFS(stagingArea, []*externalapi.DomainHash{milestoneHash}, condition)
	defer iterator.Close()

	for ok := iterator.First(); ok; ok = iterator.Next() {
		blockHash, err := iterator.Get()
		if err != nil {
			return nil, err
		}
		confirmedBlocks.Add(blockHash)
	}
	return confirmedBlocks, nil
}

// pruneMilestoneDiff drops the mutations recorded for milestone `index`
// together with the spent records they created
func (pm *pruningManager) pruneMilestoneDiff(stagingArea *model.StagingArea, index externalapi.MilestoneIndex,
	result *externalapi.PruningResult) error {

	mutations, err := pm.milestoneDiffStore.Get(pm.databaseContext, stagingArea, index)
	if err != nil && !database.IsNotFoundError(err) {
		return err
	}
	if err == nil {
		for _, outpoint := range mutations.Consumed {
			pm.utxoStore.DeleteSpentOutput(stagingArea, outpoint)
			result.DeletedSpentOutputRecords++
		}
		pm.milestoneDiffStore.Delete(stagingArea, index)
	}

	pm.milestoneStore.Delete(stagingArea, index)
	return nil
}
