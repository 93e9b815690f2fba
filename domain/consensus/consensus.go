package consensus

import (
	"context"
	"io"
	"sync"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/util/staging"
)

type consensus struct {
	// tangleLock guards the block stores. confirmationLock guards the
	// ledger and the pruning index: everything that moves them holds it for
	// writing, ledger reads hold it for reading so that a read never fills
	// the UTXO cache with an entry a concurrent commit already spent. When
	// both are needed confirmationLock is taken first.
	tangleLock       *sync.RWMutex
	confirmationLock *sync.RWMutex

	databaseContext     model.DBManager
	consensusEventsChan chan externalapi.ConsensusEvent

	blockProcessor   model.BlockProcessor
	whiteFlagManager model.WhiteFlagManager
	ledgerManager    model.LedgerManager
	pruningManager   model.PruningManager
	snapshotManager  model.SnapshotManager

	blockStore             model.BlockStore
	blockStatusStore       model.BlockStatusStore
	blockRelationStore     model.BlockRelationStore
	blockConfirmationStore model.BlockConfirmationStore
	solidEntryPointStore   model.SolidEntryPointStore
	milestoneStore         model.MilestoneStore
	pruningStore           model.PruningStore
}

// ValidateAndInsertBlock validates the given block and, if valid, inserts
// it into the tangle
func (s *consensus) ValidateAndInsertBlock(block *externalapi.DomainBlock) (*externalapi.InsertBlockResult, error) {
	result, events, err := s.validateAndInsertBlock(block)
	if err != nil {
		return nil, err
	}
	s.sendEvents(events)
	return result, nil
}

func (s *consensus) validateAndInsertBlock(block *externalapi.DomainBlock) (
	*externalapi.InsertBlockResult, []externalapi.ConsensusEvent, error) {

	s.tangleLock.Lock()
	defer s.tangleLock.Unlock()

	stagingArea := model.NewStagingArea()
	result, err := s.blockProcessor.ValidateAndInsertBlock(stagingArea, block)
	if err != nil {
		return nil, nil, err
	}
	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return nil, nil, err
	}

	events := make([]externalapi.ConsensusEvent, 0, len(result.NewlySolidBlocks))
	for _, blockHash := range result.NewlySolidBlocks {
		event := &externalapi.BlockSolid{BlockHash: blockHash}
		solidBlock := block
		if !blockHash.Equal(result.BlockHash) {
			solidBlock, err = s.blockStore.Block(s.databaseContext, model.NewStagingArea(), blockHash)
			if err != nil {
				return nil, nil, err
			}
		}
		if milestone, ok := solidBlock.Milestone(); ok {
			event.Milestone = milestone
		}
		events = append(events, event)
	}
	return result, events, nil
}

// ConfirmMilestone runs white-flag on the given milestone and applies the
// result to the ledger in a single database transaction
func (s *consensus) ConfirmMilestone(milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error) {
	result, err := s.confirmMilestone(milestoneHash)
	if err != nil {
		return nil, err
	}
	s.sendEvents([]externalapi.ConsensusEvent{&externalapi.MilestoneConfirmed{Result: result}})
	return result, nil
}

func (s *consensus) confirmMilestone(milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error) {
	s.confirmationLock.Lock()
	defer s.confirmationLock.Unlock()

	// Confirmation records are staged against the same stores inserts write to
	s.tangleLock.Lock()
	defer s.tangleLock.Unlock()

	stagingArea := model.NewStagingArea()
	result, err := s.whiteFlagManager.ConfirmMilestone(stagingArea, milestoneHash)
	if err != nil {
		return nil, err
	}
	err = staging.CommitAllChanges(s.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ApplyMilestoneMutations applies already computed mutations of milestone
// `index` directly to the ledger
func (s *consensus) ApplyMilestoneMutations(index externalapi.MilestoneIndex,
	mutations *externalapi.UTXOMutations) error {

	s.confirmationLock.Lock()
	defer s.confirmationLock.Unlock()

	stagingArea := model.NewStagingArea()
	err := s.ledgerManager.ApplyMutations(stagingArea, index, mutations)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(s.databaseContext, stagingArea)
}

// PruneDatabase evicts the history below the pruning target, one milestone
// per database transaction. Inserts may run between two milestones. If ctx
// is cancelled the cycle stops after the milestone being pruned and the
// partial result is returned along with the context's error.
func (s *consensus) PruneDatabase(ctx context.Context) (*externalapi.PruningResult, error) {
	result, err := s.pruneDatabase(ctx)
	if err != nil {
		return result, err
	}
	if !result.Skipped {
		s.sendEvents([]externalapi.ConsensusEvent{&externalapi.DatabasePruned{Result: result}})
	}
	return result, nil
}

func (s *consensus) pruneDatabase(ctx context.Context) (*externalapi.PruningResult, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "PruneDatabase")
	defer onEnd()

	s.confirmationLock.Lock()
	defer s.confirmationLock.Unlock()

	result := &externalapi.PruningResult{}
	targetIndex, skipReason, err := s.pruningManager.PruningTarget(model.NewStagingArea())
	if err != nil {
		return nil, err
	}
	if skipReason != "" {
		log.Debugf("Pruning skipped: %s", skipReason)
		result.Skipped = true
		result.SkipReason = skipReason
		return result, nil
	}
	result.TargetIndex = targetIndex

	pruningIndex, err := s.pruningStore.PruningIndex(s.databaseContext, model.NewStagingArea())
	if err != nil {
		return nil, err
	}
	for index := pruningIndex + 1; index <= targetIndex; index++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		err = s.commitUnderTangleLock(func(stagingArea *model.StagingArea) error {
			return s.pruningManager.PruneMilestone(stagingArea, index, targetIndex, result)
		})
		if err != nil {
			return nil, err
		}
	}

	err = s.commitUnderTangleLock(func(stagingArea *model.StagingArea) error {
		return s.pruningManager.PruneUnreferencedBlocks(stagingArea, targetIndex, result)
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Pruned the database up to index %d: %d milestones, %d blocks, %d unreferenced blocks, "+
		"%d new and %d expired solid entry points", targetIndex, result.PrunedMilestones, result.PrunedBlocks,
		result.PrunedUnreferencedBlocks, result.NewSolidEntryPoints, result.ExpiredSolidEntryPoints)
	return result, nil
}

func (s *consensus) commitUnderTangleLock(stage func(stagingArea *model.StagingArea) error) error {
	s.tangleLock.Lock()
	defer s.tangleLock.Unlock()

	stagingArea := model.NewStagingArea()
	err := stage(stagingArea)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(s.databaseContext, stagingArea)
}

func (s *consensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.blockStore.Block(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) HasBlock(blockHash *externalapi.DomainHash) (bool, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.blockStore.HasBlock(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) GetBlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	stagingArea := model.NewStagingArea()
	blockInfo := &externalapi.BlockInfo{}

	isSolidEntryPoint, err := s.solidEntryPointStore.Has(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.IsSolidEntryPoint = isSolidEntryPoint

	block, err := s.blockStore.Block(s.databaseContext, stagingArea, blockHash)
	if database.IsNotFoundError(err) {
		return blockInfo, nil
	}
	if err != nil {
		return nil, err
	}
	blockInfo.Exists = true
	blockInfo.PayloadType = block.PayloadType()

	statusData, err := s.blockStatusStore.Get(s.databaseContext, stagingArea, blockHash)
	if err != nil {
		return nil, err
	}
	blockInfo.Status = statusData.Status
	blockInfo.ArrivalTime = statusData.ArrivalTime

	confirmation, err := s.blockConfirmationStore.Get(s.databaseContext, stagingArea, blockHash)
	if database.IsNotFoundError(err) {
		return blockInfo, nil
	}
	if err != nil {
		return nil, err
	}
	blockInfo.Confirmation = confirmation
	return blockInfo, nil
}

func (s *consensus) GetBlockChildren(blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.blockRelationStore.Children(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) IsSolidEntryPoint(blockHash *externalapi.DomainHash) (bool, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.solidEntryPointStore.Has(s.databaseContext, model.NewStagingArea(), blockHash)
}

func (s *consensus) SolidEntryPoints() (map[externalapi.DomainHash]*externalapi.SolidEntryPoint, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.solidEntryPointStore.All(s.databaseContext, model.NewStagingArea())
}

func (s *consensus) MilestoneHashByIndex(index externalapi.MilestoneIndex) (*externalapi.DomainHash, error) {
	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.milestoneStore.MilestoneHash(s.databaseContext, model.NewStagingArea(), index)
}

func (s *consensus) LedgerIndex() (externalapi.MilestoneIndex, error) {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.ledgerManager.LedgerIndex(model.NewStagingArea())
}

func (s *consensus) PruningIndex() (externalapi.MilestoneIndex, error) {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.pruningStore.PruningIndex(s.databaseContext, model.NewStagingArea())
}

func (s *consensus) GetUTXOEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.ledgerManager.UTXOEntry(model.NewStagingArea(), outpoint)
}

func (s *consensus) GetSpentOutput(outpoint *externalapi.DomainOutpoint) (*externalapi.SpentOutput, bool, error) {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.ledgerManager.SpentOutput(model.NewStagingArea(), outpoint)
}

func (s *consensus) LedgerStateHash() (*externalapi.DomainHash, error) {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.ledgerManager.LedgerStateHash(model.NewStagingArea())
}

func (s *consensus) ImportSnapshot(reader io.Reader) error {
	s.confirmationLock.Lock()
	defer s.confirmationLock.Unlock()

	s.tangleLock.Lock()
	defer s.tangleLock.Unlock()

	return s.snapshotManager.ImportSnapshot(reader)
}

func (s *consensus) ExportSnapshot(writer io.Writer) error {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	s.tangleLock.RLock()
	defer s.tangleLock.RUnlock()

	return s.snapshotManager.ExportSnapshot(writer)
}

func (s *consensus) ExportDeltaSnapshot(writer io.Writer, fromIndex externalapi.MilestoneIndex) error {
	s.confirmationLock.RLock()
	defer s.confirmationLock.RUnlock()

	return s.snapshotManager.ExportDeltaSnapshot(writer, fromIndex)
}

// sendEvents delivers events to the registered channel. It is called
// without holding any lock, so a slow consumer only slows down the caller.
func (s *consensus) sendEvents(events []externalapi.ConsensusEvent) {
	if s.consensusEventsChan == nil {
		return
	}
	for _, event := range events {
		s.consensusEventsChan <- event
	}
}
