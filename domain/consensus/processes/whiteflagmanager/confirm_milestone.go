package whiteflagmanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/infrastructure/logger"
)

// ConfirmMilestone runs white-flag on milestoneHash, verifies the merkle
// roots the milestone declares and stages the confirmation of every newly
// referenced block together with the resulting ledger mutations
func (wfm *whiteFlagManager) ConfirmMilestone(stagingArea *model.StagingArea,
	milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ConfirmMilestone")
	defer onEnd()

	milestone, err := wfm.milestone(stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}
	ledgerIndex, err := wfm.ledgerManager.LedgerIndex(stagingArea)
	if err != nil {
		return nil, err
	}
	if milestone.Index != ledgerIndex+1 {
		return nil, errors.Wrapf(ruleerrors.ErrOutOfSequence, "cannot confirm milestone %d on top of "+
			"ledger index %d", milestone.Index, ledgerIndex)
	}

	statusData, err := wfm.blockStatusStore.Get(wfm.databaseContext, stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}
	if statusData.Status != externalapi.StatusSolid {
		return nil, errors.Wrapf(ruleerrors.ErrMilestoneNotSolid, "milestone %s is not solid", milestoneHash)
	}

	result, err := wfm.ComputeWhiteFlagMutations(stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}

	err = verifyMerkleRoots(milestone, result)
	if err != nil {
		return nil, err
	}

	for whiteFlagIndex, entry := range result.Order {
		wfm.blockConfirmationStore.Stage(stagingArea, entry.BlockHash, &externalapi.BlockConfirmation{
			ReferencedByIndex: milestone.Index,
			WhiteFlagIndex:    uint32(whiteFlagIndex),
			Classification:    entry.Classification,
			ConflictReason:    entry.ConflictReason,
		})

		entryStatusData, err := wfm.blockStatusStore.Get(wfm.databaseContext, stagingArea, entry.BlockHash)
		if err != nil {
			return nil, err
		}
		wfm.unreferencedBlockStore.Delete(stagingArea, entryStatusData.ArrivalLedgerIndex, entry.BlockHash)
	}

	err = wfm.ledgerManager.ApplyMutations(stagingArea, milestone.Index, result.Mutations)
	if err != nil {
		return nil, err
	}

	log.Infof("Confirmed milestone %d (%s): %d blocks referenced, %d included",
		milestone.Index, milestoneHash, len(result.Order), len(result.IncludedBlockHashes()))
	return result, nil
}

func verifyMerkleRoots(milestone *externalapi.DomainMilestone, result *externalapi.ConfirmationResult) error {
	if milestone.InclusionMerkleRoot != nil && !milestone.InclusionMerkleRoot.Equal(result.InclusionMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrMerkleRootMismatch, "milestone %d declares inclusion merkle root %s "+
			"while the computed one is %s", milestone.Index, milestone.InclusionMerkleRoot, result.InclusionMerkleRoot)
	}
	if milestone.AppliedMerkleRoot != nil && !milestone.AppliedMerkleRoot.Equal(result.AppliedMerkleRoot) {
		return errors.Wrapf(ruleerrors.ErrMerkleRootMismatch, "milestone %d declares applied merkle root %s "+
			"while the computed one is %s", milestone.Index, milestone.AppliedMerkleRoot, result.AppliedMerkleRoot)
	}
	return nil
}
