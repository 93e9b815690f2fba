package pruningmanager

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
)

// evictBlock deletes blockHash and all of its metadata, and unlinks it from
// the parents that survive this cycle. evicted holds every block deleted in
// the same cycle.
func (pm *pruningManager) evictBlock(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	evicted hashset.HashSet, result *externalapi.PruningResult) error {

	block, err := pm.blockStore.Block(pm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	statusData, err := pm.blockStatusStore.Get(pm.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}

	for _, parent := range block.Parents {
		if evicted.Contains(parent) {
			continue
		}
		err = pm.removeChild(stagingArea, parent, blockHash, result)
		if err != nil {
			return err
		}
	}

	if milestone, ok := block.Milestone(); ok {
		milestoneHash, err := pm.milestoneStore.MilestoneHash(pm.databaseContext, stagingArea, milestone.Index)
		if err != nil && !database.IsNotFoundError(err) {
			return err
		}
		if err == nil && milestoneHash.Equal(blockHash) {
			pm.milestoneStore.Delete(stagingArea, milestone.Index)
		}
	}

	pm.blockStore.Delete(stagingArea, blockHash)
	pm.blockStatusStore.Delete(stagingArea, blockHash)
	pm.blockConfirmationStore.Delete(stagingArea, blockHash)
	pm.blockRelationStore.Delete(stagingArea, blockHash)
	pm.unreferencedBlockStore.Delete(stagingArea, statusData.ArrivalLedgerIndex, blockHash)
	return nil
}

// removeChild removes childHash from the children of parentHash. A solid
// entry point left without children expires.
func (pm *pruningManager) removeChild(stagingArea *model.StagingArea, parentHash *externalapi.DomainHash,
	childHash *externalapi.DomainHash, result *externalapi.PruningResult) error {

	children, err := pm.blockRelationStore.Children(pm.databaseContext, stagingArea, parentHash)
	if err != nil {
		return err
	}
	remaining := make([]*externalapi.DomainHash, 0, len(children))
	for _, child := range children {
		if !child.Equal(childHash) {
			remaining = append(remaining, child)
		}
	}
	pm.blockRelationStore.StageChildren(stagingArea, parentHash, remaining)

	if len(remaining) > 0 {
		return nil
	}
	isSolidEntryPoint, err := pm.solidEntryPointStore.Has(pm.databaseContext, stagingArea, parentHash)
	if err != nil {
		return err
	}
	if isSolidEntryPoint {
		pm.solidEntryPointStore.Delete(stagingArea, parentHash)
		result.ExpiredSolidEntryPoints++
		log.Debugf("Solid entry point %s expired", parentHash)
	}
	return nil
}
