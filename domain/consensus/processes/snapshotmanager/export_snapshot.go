package snapshotmanager

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/domain/snapshot"
	"github.com/tanglenet/tangled/infrastructure/logger"
)

// ExportSnapshot writes a full snapshot of the committed ledger to writer:
// every unspent output, the solid entry points and every milestone diff
// that wasn't pruned yet
func (sm *snapshotManager) ExportSnapshot(writer io.Writer) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ExportSnapshot")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	ledgerIndex, err := sm.ledgerManager.LedgerIndex(stagingArea)
	if err != nil {
		return err
	}
	ledgerStateHash, err := sm.ledgerManager.LedgerStateHash(stagingArea)
	if err != nil {
		return err
	}
	pruningIndex, err := sm.pruningStore.PruningIndex(sm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	diffs, err := sm.milestoneDiffs(stagingArea, pruningIndex, ledgerIndex)
	if err != nil {
		return err
	}
	solidEntryPoints, err := sm.solidEntryPoints(stagingArea)
	if err != nil {
		return err
	}
	outputCount, err := sm.countOutputs()
	if err != nil {
		return err
	}

	snapshotWriter := snapshot.NewWriter(writer)
	err = snapshotWriter.WriteHeader(&snapshot.Header{
		Version:          snapshot.Version,
		Kind:             snapshot.KindFull,
		NetworkID:        uint32(sm.dagParams.Net),
		LedgerIndex:      ledgerIndex,
		SolidEntryPoints: solidEntryPoints,
		OutputCount:      outputCount,
		DiffCount:        uint64(len(diffs)),
		LedgerStateHash:  ledgerStateHash,
	})
	if err != nil {
		return err
	}

	iterator, err := sm.utxoStore.UTXOSetIterator(sm.databaseContext)
	if err != nil {
		return err
	}
	defer iterator.Close()

	written := uint64(0)
	for ok := iterator.First(); ok; ok = iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return err
		}
		err = snapshotWriter.WriteOutput(outpoint, entry)
		if err != nil {
			return err
		}
		written++
	}
	if written != outputCount {
		return errors.Errorf("the unspent output set changed during the export: counted %d outputs "+
			"but wrote %d", outputCount, written)
	}

	for _, diff := range diffs {
		err = snapshotWriter.WriteDiff(diff)
		if err != nil {
			return err
		}
	}

	log.Infof("Exported a full snapshot at ledger index %d: %d unspent outputs, %d solid entry points, "+
		"%d milestone diffs", ledgerIndex, outputCount, len(solidEntryPoints), len(diffs))
	return snapshotWriter.Flush()
}

// ExportDeltaSnapshot writes the milestone diffs above fromIndex to writer
func (sm *snapshotManager) ExportDeltaSnapshot(writer io.Writer, fromIndex externalapi.MilestoneIndex) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ExportDeltaSnapshot")
	defer onEnd()

	stagingArea := model.NewStagingArea()
	ledgerIndex, err := sm.ledgerManager.LedgerIndex(stagingArea)
	if err != nil {
		return err
	}
	if fromIndex > ledgerIndex {
		return errors.Errorf("cannot export a delta snapshot from index %d which is above the "+
			"ledger index %d", fromIndex, ledgerIndex)
	}
	pruningIndex, err := sm.pruningStore.PruningIndex(sm.databaseContext, stagingArea)
	if err != nil {
		return err
	}
	if fromIndex < pruningIndex {
		return errors.Errorf("cannot export a delta snapshot from index %d since the database is "+
			"pruned up to index %d", fromIndex, pruningIndex)
	}
	ledgerStateHash, err := sm.ledgerManager.LedgerStateHash(stagingArea)
	if err != nil {
		return err
	}
	diffs, err := sm.milestoneDiffs(stagingArea, fromIndex, ledgerIndex)
	if err != nil {
		return err
	}
	if len(diffs) != int(ledgerIndex-fromIndex) {
		return errors.Errorf("the diffs of milestones %d to %d are incomplete", fromIndex+1, ledgerIndex)
	}

	snapshotWriter := snapshot.NewWriter(writer)
	err = snapshotWriter.WriteHeader(&snapshot.Header{
		Version:         snapshot.Version,
		Kind:            snapshot.KindDelta,
		NetworkID:       uint32(sm.dagParams.Net),
		LedgerIndex:     ledgerIndex,
		FromIndex:       fromIndex,
		DiffCount:       uint64(len(diffs)),
		LedgerStateHash: ledgerStateHash,
	})
	if err != nil {
		return err
	}
	for _, diff := range diffs {
		err = snapshotWriter.WriteDiff(diff)
		if err != nil {
			return err
		}
	}

	log.Infof("Exported a delta snapshot of milestones %d to %d", fromIndex+1, ledgerIndex)
	return snapshotWriter.Flush()
}

// milestoneDiffs returns the stored diffs of the milestones in
// (fromIndex, toIndex], in index order
func (sm *snapshotManager) milestoneDiffs(stagingArea *model.StagingArea,
	fromIndex, toIndex externalapi.MilestoneIndex) ([]*snapshot.MilestoneDiff, error) {

	diffs := make([]*snapshot.MilestoneDiff, 0, toIndex-fromIndex)
	for index := fromIndex + 1; index <= toIndex; index++ {
		hasDiff, err := sm.milestoneDiffStore.Has(sm.databaseContext, stagingArea, index)
		if err != nil {
			return nil, err
		}
		if !hasDiff {
			continue
		}
		mutations, err := sm.milestoneDiffStore.Get(sm.databaseContext, stagingArea, index)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, &snapshot.MilestoneDiff{Index: index, Mutations: mutations})
	}
	return diffs, nil
}

func (sm *snapshotManager) solidEntryPoints(stagingArea *model.StagingArea) ([]*snapshot.SolidEntryPoint, error) {
	all, err := sm.solidEntryPointStore.All(sm.databaseContext, stagingArea)
	if err != nil {
		return nil, err
	}
	solidEntryPoints := make([]*snapshot.SolidEntryPoint, 0, len(all))
	for blockHash, solidEntryPoint := range all {
		blockHash := blockHash
		solidEntryPoints = append(solidEntryPoints, &snapshot.SolidEntryPoint{
			BlockHash:      &blockHash,
			ConfirmedIndex: solidEntryPoint.ConfirmedIndex,
		})
	}
	sort.Slice(solidEntryPoints, func(i, j int) bool {
		return hashes.Less(solidEntryPoints[i].BlockHash, solidEntryPoints[j].BlockHash)
	})
	return solidEntryPoints, nil
}

func (sm *snapshotManager) countOutputs() (uint64, error) {
	iterator, err := sm.utxoStore.UTXOSetIterator(sm.databaseContext)
	if err != nil {
		return 0, err
	}
	defer iterator.Close()

	count := uint64(0)
	for ok := iterator.First(); ok; ok = iterator.Next() {
		count++
	}
	return count, nil
}
