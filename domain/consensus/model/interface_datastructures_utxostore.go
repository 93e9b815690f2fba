package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// UTXOStore represents the ledger state: the unspent output set, the spent
// output records, the ledger index, the total supply and the MuHash
// commitment of the unspent output set
type UTXOStore interface {
	Store
	IsInitialized(dbContext DBReader) (bool, error)

	StageLedgerIndex(stagingArea *StagingArea, index externalapi.MilestoneIndex)
	LedgerIndex(dbContext DBReader, stagingArea *StagingArea) (externalapi.MilestoneIndex, error)

	StageAddUTXO(stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry)
	StageRemoveUTXO(stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry)
	UTXOEntry(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, error)
	HasUTXOEntry(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (bool, error)
	UTXOSetIterator(dbContext DBReader) (ReadOnlyUTXOSetIterator, error)

	Supply(dbContext DBReader, stagingArea *StagingArea) (uint64, error)
	CalculateSupply(dbContext DBReader, stagingArea *StagingArea) (uint64, error)
	LedgerStateHash(dbContext DBReader, stagingArea *StagingArea) (*externalapi.DomainHash, error)

	StageSpentOutput(stagingArea *StagingArea, spentOutput *externalapi.SpentOutput)
	SpentOutput(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (*externalapi.SpentOutput, error)
	HasSpentOutput(dbContext DBReader, stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint) (bool, error)
	DeleteSpentOutput(stagingArea *StagingArea, outpoint *externalapi.DomainOutpoint)
}

// ReadOnlyUTXOSetIterator is an iterator over all entries in a
// ReadOnlyUTXOSet
type ReadOnlyUTXOSetIterator interface {
	First() bool
	Next() bool
	Get() (outpoint *externalapi.DomainOutpoint, utxoEntry externalapi.UTXOEntry, err error)
	Close() error
}
