package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// UnreferencedBlock is a block not yet referenced by any milestone, along
// with the ledger index at the time it arrived
type UnreferencedBlock struct {
	ArrivalLedgerIndex externalapi.MilestoneIndex
	BlockHash          *externalapi.DomainHash
}

// UnreferencedBlockStore represents an index of the blocks that no
// milestone referenced yet, ordered by arrival ledger index
type UnreferencedBlockStore interface {
	Store
	Stage(stagingArea *StagingArea, arrivalLedgerIndex externalapi.MilestoneIndex, blockHash *externalapi.DomainHash)
	Delete(stagingArea *StagingArea, arrivalLedgerIndex externalapi.MilestoneIndex, blockHash *externalapi.DomainHash)
	BlocksUpToIndex(dbContext DBReader, maxArrivalLedgerIndex externalapi.MilestoneIndex) ([]*UnreferencedBlock, error)
}
