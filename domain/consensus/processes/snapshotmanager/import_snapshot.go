package snapshotmanager

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/snapshot"
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/util/staging"
)

// ImportSnapshot reads a full or a delta snapshot from reader and commits
// it. A full snapshot can only be imported into an empty database. A delta
// snapshot is replayed on top of the current ledger. Nothing is written
// unless the whole snapshot is valid.
func (sm *snapshotManager) ImportSnapshot(reader io.Reader) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "ImportSnapshot")
	defer onEnd()

	snapshotReader := snapshot.NewReader(reader)
	header, err := snapshotReader.ReadHeader()
	if err != nil {
		return invalidSnapshotError(err)
	}
	if header.NetworkID != uint32(sm.dagParams.Net) {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "snapshot belongs to network %#x "+
			"rather than %s", header.NetworkID, sm.dagParams.Name)
	}
	log.Infof("Importing a %s snapshot at ledger index %d", header.Kind, header.LedgerIndex)

	stagingArea := model.NewStagingArea()
	switch header.Kind {
	case snapshot.KindFull:
		err = sm.importFullSnapshot(stagingArea, snapshotReader, header)
	case snapshot.KindDelta:
		err = sm.importDeltaSnapshot(stagingArea, snapshotReader, header)
	}
	if err != nil {
		return err
	}

	err = sm.verifyLedgerStateHash(stagingArea, header)
	if err != nil {
		return err
	}
	return staging.CommitAllChanges(sm.databaseContext, stagingArea)
}

func (sm *snapshotManager) importFullSnapshot(stagingArea *model.StagingArea, reader *snapshot.Reader,
	header *snapshot.Header) error {

	isInitialized, err := sm.utxoStore.IsInitialized(sm.databaseContext)
	if err != nil {
		return err
	}
	if isInitialized {
		return errors.Wrapf(ruleerrors.ErrDatabaseAlreadyInitialized, "cannot import a full snapshot "+
			"into a database that already holds a ledger")
	}
	if header.DiffCount > uint64(header.LedgerIndex) {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "snapshot at ledger index %d holds %d diffs",
			header.LedgerIndex, header.DiffCount)
	}

	utxos := make([]*externalapi.OutpointAndUTXOEntryPair, 0, header.OutputCount)
	supply := uint64(0)
	for i := uint64(0); i < header.OutputCount; i++ {
		outpoint, entry, err := reader.ReadOutput()
		if err != nil {
			return invalidSnapshotError(err)
		}
		newSupply := supply + entry.Amount()
		if newSupply < supply || newSupply > sm.dagParams.TotalSupply {
			return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "snapshot outputs exceed the total supply")
		}
		supply = newSupply
		utxos = append(utxos, &externalapi.OutpointAndUTXOEntryPair{Outpoint: outpoint, UTXOEntry: entry})
	}
	if supply != sm.dagParams.TotalSupply {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "snapshot outputs hold %d instead of the "+
			"total supply of %d", supply, sm.dagParams.TotalSupply)
	}

	err = sm.ledgerManager.ImportLedgerState(stagingArea, header.LedgerIndex, utxos)
	if err != nil {
		return err
	}

	for _, solidEntryPoint := range header.SolidEntryPoints {
		sm.solidEntryPointStore.Stage(stagingArea, solidEntryPoint.BlockHash, &externalapi.SolidEntryPoint{
			ConfirmedIndex: solidEntryPoint.ConfirmedIndex,
			PrunedAtIndex:  header.LedgerIndex,
		})
	}

	// The diffs are the history of the last DiffCount milestones, kept so
	// that delta snapshots can be exported from them
	firstDiffIndex := header.LedgerIndex - externalapi.MilestoneIndex(header.DiffCount) + 1
	for i := uint64(0); i < header.DiffCount; i++ {
		diff, err := reader.ReadDiff()
		if err != nil {
			return invalidSnapshotError(err)
		}
		expectedIndex := firstDiffIndex + externalapi.MilestoneIndex(i)
		if diff.Index != expectedIndex {
			return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "expected the diff of milestone %d "+
				"but got the diff of milestone %d", expectedIndex, diff.Index)
		}
		sm.milestoneDiffStore.Stage(stagingArea, diff.Index, diff.Mutations)
	}
	sm.pruningStore.StagePruningIndex(stagingArea, firstDiffIndex-1)

	log.Infof("Imported %d unspent outputs, %d solid entry points and %d milestone diffs",
		len(utxos), len(header.SolidEntryPoints), header.DiffCount)
	return nil
}

func (sm *snapshotManager) importDeltaSnapshot(stagingArea *model.StagingArea, reader *snapshot.Reader,
	header *snapshot.Header) error {

	ledgerIndex, err := sm.ledgerManager.LedgerIndex(stagingArea)
	if err != nil {
		return err
	}
	if header.FromIndex > ledgerIndex || header.LedgerIndex < ledgerIndex {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "delta snapshot covers milestones %d to %d "+
			"which cannot continue ledger index %d", header.FromIndex+1, header.LedgerIndex, ledgerIndex)
	}
	if uint64(header.LedgerIndex-header.FromIndex) != header.DiffCount {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "delta snapshot from %d to %d holds %d diffs",
			header.FromIndex, header.LedgerIndex, header.DiffCount)
	}

	applied := 0
	for i := uint64(0); i < header.DiffCount; i++ {
		diff, err := reader.ReadDiff()
		if err != nil {
			return invalidSnapshotError(err)
		}
		expectedIndex := header.FromIndex + externalapi.MilestoneIndex(i) + 1
		if diff.Index != expectedIndex {
			return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "expected the diff of milestone %d "+
				"but got the diff of milestone %d", expectedIndex, diff.Index)
		}
		if diff.Index <= ledgerIndex {
			continue
		}
		err = sm.ledgerManager.ApplyMutations(stagingArea, diff.Index, diff.Mutations)
		if err != nil {
			return err
		}
		applied++
	}

	log.Infof("Applied %d milestone diffs from a delta snapshot", applied)
	return nil
}

func (sm *snapshotManager) verifyLedgerStateHash(stagingArea *model.StagingArea, header *snapshot.Header) error {
	if header.LedgerStateHash == nil {
		return nil
	}
	ledgerStateHash, err := sm.ledgerManager.LedgerStateHash(stagingArea)
	if err != nil {
		return err
	}
	if !ledgerStateHash.Equal(header.LedgerStateHash) {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "snapshot declares ledger state hash %s "+
			"but the imported ledger hashes to %s", header.LedgerStateHash, ledgerStateHash)
	}
	return nil
}

func invalidSnapshotError(err error) error {
	if errors.Is(err, snapshot.ErrMalformedSnapshot) {
		return errors.Wrapf(ruleerrors.ErrInvalidSnapshot, "%s", err)
	}
	return err
}
