package blockprocessor

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/processes/blockprocessor/blocklogger"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/infrastructure/logger"
)

// ValidateAndInsertBlock validates the given block and, if valid, stages it
// along with its metadata and the solidity changes it causes
func (bp *blockProcessor) ValidateAndInsertBlock(stagingArea *model.StagingArea,
	block *externalapi.DomainBlock) (*externalapi.InsertBlockResult, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ValidateAndInsertBlock")
	defer onEnd()

	blockHash := consensushashing.BlockHash(block)
	log.Debugf("Validating block %s", blockHash)

	err := bp.checkBlockIsNew(stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	err = bp.checkParents(block)
	if err != nil {
		return nil, err
	}

	ledgerIndex, err := bp.utxoStore.LedgerIndex(bp.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}

	if milestone, ok := block.Milestone(); ok {
		err = bp.checkMilestone(stagingArea, blockHash, milestone, ledgerIndex)
		if err != nil {
			return nil, err
		}
		bp.milestoneStore.Stage(stagingArea, milestone.Index, blockHash)
	}

	bp.blockStore.Stage(stagingArea, blockHash, block)
	bp.blockStatusStore.Stage(stagingArea, blockHash, &externalapi.BlockStatusData{
		Status:             externalapi.StatusUnsolid,
		ArrivalTime:        bp.timeSource(),
		ArrivalLedgerIndex: ledgerIndex,
	})
	bp.unreferencedBlockStore.Stage(stagingArea, ledgerIndex, blockHash)

	for _, parent := range block.Parents {
		children, err := bp.blockRelationStore.Children(bp.databaseContext, stagingArea, parent)
		if err != nil {
			return nil, err
		}
		bp.blockRelationStore.StageChildren(stagingArea, parent, append(children, blockHash))
	}

	missingParents, err := bp.missingParents(stagingArea, block)
	if err != nil {
		return nil, err
	}

	newlySolidBlocks, err := bp.solidify(stagingArea, blockHash, block)
	if err != nil {
		return nil, err
	}

	blocklogger.LogBlock(block)
	log.Debugf("Block %s inserted. Solid: %t, missing parents: %d, newly solid blocks: %d",
		blockHash, len(newlySolidBlocks) > 0, len(missingParents), len(newlySolidBlocks))

	return &externalapi.InsertBlockResult{
		BlockHash:        blockHash,
		IsSolid:          len(newlySolidBlocks) > 0,
		MissingParents:   missingParents,
		NewlySolidBlocks: newlySolidBlocks,
	}, nil
}

func (bp *blockProcessor) checkBlockIsNew(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) error {
	hasBlock, err := bp.blockStore.HasBlock(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if hasBlock {
		return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
	}

	isSolidEntryPoint, err := bp.solidEntryPointStore.Has(bp.databaseContext, stagingArea, blockHash)
	if err != nil {
		return err
	}
	if isSolidEntryPoint {
		return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s is a solid entry point", blockHash)
	}
	return nil
}

func (bp *blockProcessor) checkParents(block *externalapi.DomainBlock) error {
	numParents := len(block.Parents)
	if numParents == 0 {
		return errors.Wrapf(ruleerrors.ErrNoParents, "block has no parents")
	}
	if numParents > bp.dagParams.MaxBlockParents {
		return errors.Wrapf(ruleerrors.ErrTooManyParents, "block has %d parents, "+
			"more than the max of %d", numParents, bp.dagParams.MaxBlockParents)
	}
	if !hashes.IsStrictlyAscending(block.Parents) {
		return errors.Wrapf(ruleerrors.ErrParentsNotSorted, "block parents %v are not strictly ascending",
			hashes.ToStrings(block.Parents))
	}
	return nil
}

func (bp *blockProcessor) checkMilestone(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	milestone *externalapi.DomainMilestone, ledgerIndex externalapi.MilestoneIndex) error {

	if milestone.Index <= ledgerIndex {
		return errors.Wrapf(ruleerrors.ErrMilestoneTooOld, "milestone %s has index %d while the "+
			"ledger index is already %d", blockHash, milestone.Index, ledgerIndex)
	}

	hasMilestone, err := bp.milestoneStore.Has(bp.databaseContext, stagingArea, milestone.Index)
	if err != nil {
		return err
	}
	if hasMilestone {
		existingHash, err := bp.milestoneStore.MilestoneHash(bp.databaseContext, stagingArea, milestone.Index)
		if err != nil {
			return err
		}
		return errors.Wrapf(ruleerrors.ErrDuplicateMilestoneIndex, "milestone index %d is already "+
			"carried by block %s", milestone.Index, existingHash)
	}
	return nil
}

func (bp *blockProcessor) missingParents(stagingArea *model.StagingArea,
	block *externalapi.DomainBlock) ([]*externalapi.DomainHash, error) {

	var missingParents []*externalapi.DomainHash
	for _, parent := range block.Parents {
		hasParent, err := bp.blockStore.HasBlock(bp.databaseContext, stagingArea, parent)
		if err != nil {
			return nil, err
		}
		if hasParent {
			continue
		}
		isSolidEntryPoint, err := bp.solidEntryPointStore.Has(bp.databaseContext, stagingArea, parent)
		if err != nil {
			return nil, err
		}
		if !isSolidEntryPoint {
			missingParents = append(missingParents, parent)
		}
	}
	return missingParents, nil
}
