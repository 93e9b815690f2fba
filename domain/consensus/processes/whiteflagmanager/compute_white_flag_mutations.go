package whiteflagmanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/merkle"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxo"
	"github.com/tanglenet/tangled/infrastructure/logger"
)

// ComputeWhiteFlagMutations walks the blocks milestoneHash newly references
// in post-order, parents first and in parent-list order, and classifies
// each of them against the ledger as it stands after the blocks before it.
// Nothing is staged.
func (wfm *whiteFlagManager) ComputeWhiteFlagMutations(stagingArea *model.StagingArea,
	milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "ComputeWhiteFlagMutations")
	defer onEnd()

	milestone, err := wfm.milestone(stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}

	order, err := wfm.whiteFlagOrder(stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}

	mutationSet := utxo.NewMutationSet()
	entries := make([]*externalapi.BlockClassificationEntry, len(order))
	referencedHashes := make([]*externalapi.DomainHash, 0, len(order))
	includedHashes := make([]*externalapi.DomainHash, 0, len(order))
	for i, blockHash := range order {
		block, err := wfm.blockStore.Block(wfm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return nil, err
		}
		entry, err := wfm.classifyBlock(stagingArea, blockHash, block, milestone.Index, mutationSet)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
		// A milestone cannot commit to its own hash, so it is left out of
		// the merkle roots.
		if !blockHash.Equal(milestoneHash) {
			referencedHashes = append(referencedHashes, blockHash)
		}
		if entry.Classification == externalapi.ClassificationIncluded {
			includedHashes = append(includedHashes, blockHash)
		}
	}

	result := &externalapi.ConfirmationResult{
		MilestoneIndex:      milestone.Index,
		MilestoneHash:       milestoneHash,
		Order:               entries,
		Mutations:           mutationSet.ToMutations(),
		InclusionMerkleRoot: merkle.CalculateMerkleRoot(referencedHashes),
		AppliedMerkleRoot:   merkle.CalculateMerkleRoot(includedHashes),
	}
	log.Debugf("Milestone %d references %d new blocks, %d of them included",
		milestone.Index, len(entries), len(includedHashes))
	return result, nil
}

func (wfm *whiteFlagManager) milestone(stagingArea *model.StagingArea,
	milestoneHash *externalapi.DomainHash) (*externalapi.DomainMilestone, error) {

	block, err := wfm.blockStore.Block(wfm.databaseContext, stagingArea, milestoneHash)
	if database.IsNotFoundError(err) {
		return nil, errors.Wrapf(ruleerrors.ErrMilestoneNotSolid, "milestone %s is not stored", milestoneHash)
	}
	if err != nil {
		return nil, err
	}
	milestone, ok := block.Milestone()
	if !ok {
		return nil, errors.Wrapf(ruleerrors.ErrNotAMilestone, "block %s carries a %s payload",
			milestoneHash, block.PayloadType())
	}
	return milestone, nil
}

// whiteFlagOrder returns the blocks in the past cone of milestoneHash that
// are neither confirmed nor solid entry points, milestoneHash last
func (wfm *whiteFlagManager) whiteFlagOrder(stagingArea *model.StagingArea,
	milestoneHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {

	condition := func(blockHash *externalapi.DomainHash) (model.TraversalDecision, error) {
		isSolidEntryPoint, err := wfm.solidEntryPointStore.Has(wfm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		if isSolidEntryPoint {
			return model.TraversalSkip, nil
		}
		isConfirmed, err := wfm.blockConfirmationStore.Has(wfm.databaseContext, stagingArea, blockHash)
		if err != nil {
			return 0, err
		}
		if isConfirmed {
			return model.TraversalSkip, nil
		}
		return model.TraversalContinue, nil
	}

	iterator := wfm.dagTraversalManager.PastConePostOrderDFS(stagingArea, milestoneHash, condition)
	defer iterator.Close()

	var order []*externalapi.DomainHash
	for ok := iterator.First(); ok; ok = iterator.Next() {
		blockHash, err := iterator.Get()
		if database.IsNotFoundError(err) {
			return nil, errors.Wrapf(ruleerrors.ErrMilestoneNotSolid, "the past cone of milestone %s "+
				"is missing a block: %s", milestoneHash, err)
		}
		if err != nil {
			return nil, err
		}
		order = append(order, blockHash)
	}
	return order, nil
}
