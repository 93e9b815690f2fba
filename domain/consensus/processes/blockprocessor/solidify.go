package blockprocessor

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// IsSolid returns whether blockHash is a solid entry point or a stored
// block whose parents are all solid
func (bp *blockProcessor) IsSolid(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) (bool, error) {
	isSolidEntryPoint, err := bp.solidEntryPointStore.Has(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	if isSolidEntryPoint {
		return true, nil
	}

	statusData, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, blockHash)
	if database.IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return statusData.Status == externalapi.StatusSolid, nil
}

func (bp *blockProcessor) areParentsSolid(stagingArea *model.StagingArea, block *externalapi.DomainBlock) (bool, error) {
	for _, parent := range block.Parents {
		isParentSolid, err := bp.IsSolid(stagingArea, parent)
		if err != nil {
			return false, err
		}
		if !isParentSolid {
			return false, nil
		}
	}
	return true, nil
}

func (bp *blockProcessor) markSolid(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	statusData, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	statusData.Status = externalapi.StatusSolid
	bp.blockStatusStore.Stage(stagingArea, blockHash, statusData)
	return nil
}

// solidify marks the newly inserted block as solid if its parents are, and
// then propagates solidity to its children. A child is re-evaluated every
// time one of its parents becomes solid. It returns the blocks that became
// solid, in the order they became solid.
func (bp *blockProcessor) solidify(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	block *externalapi.DomainBlock) ([]*externalapi.DomainHash, error) {

	isSolid, err := bp.areParentsSolid(stagingArea, block)
	if err != nil {
		return nil, err
	}
	if !isSolid {
		return nil, nil
	}
	err = bp.markSolid(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}

	newlySolidBlocks := []*externalapi.DomainHash{blockHash}
	for i := 0; i < len(newlySolidBlocks); i++ {
		children, err := bp.blockRelationStore.Children(bp.databaseContext, stagingArea, newlySolidBlocks[i])
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			becameSolid, err := bp.solidifyChild(stagingArea, child)
			if err != nil {
				return nil, err
			}
			if becameSolid {
				newlySolidBlocks = append(newlySolidBlocks, child)
			}
		}
	}
	return newlySolidBlocks, nil
}

// solidifyChild marks childHash as solid if it was waiting only on blocks
// that are solid by now
func (bp *blockProcessor) solidifyChild(stagingArea *model.StagingArea, childHash *externalapi.DomainHash) (bool, error) {
	statusData, err := bp.blockStatusStore.Get(bp.databaseContext, stagingArea, childHash)
	if database.IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if statusData.Status == externalapi.StatusSolid {
		return false, nil
	}

	child, err := bp.blockStore.Block(bp.databaseContext, stagingArea, childHash)
	if err != nil {
		return false, err
	}
	isSolid, err := bp.areParentsSolid(stagingArea, child)
	if err != nil || !isSolid {
		return false, err
	}
	return true, bp.markSolid(stagingArea, childHash)
}
