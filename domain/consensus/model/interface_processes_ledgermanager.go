package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// LedgerManager owns the unspent output set and the ledger index
type LedgerManager interface {
	ApplyMutations(stagingArea *StagingArea, index externalapi.MilestoneIndex, mutations *externalapi.UTXOMutations) error
	ImportLedgerState(stagingArea *StagingArea, index externalapi.MilestoneIndex,
		utxos []*externalapi.OutpointAndUTXOEntryPair) error

	LedgerIndex(stagingArea *StagingArea) (externalapi.MilestoneIndex, error)
	UTXOEntry(stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error)
	SpentOutput(stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (*externalapi.SpentOutput, bool, error)
	LedgerStateHash(stagingArea *StagingArea) (*externalapi.DomainHash, error)
}
