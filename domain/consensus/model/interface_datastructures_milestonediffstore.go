package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// MilestoneDiffStore represents a store of the ledger mutations applied by
// each milestone
type MilestoneDiffStore interface {
	Store
	Stage(stagingArea *StagingArea, index externalapi.MilestoneIndex, mutations *externalapi.UTXOMutations)
	Get(dbContext DBReader, stagingArea *StagingArea, index externalapi.MilestoneIndex) (*externalapi.UTXOMutations, error)
	Has(dbContext DBReader, stagingArea *StagingArea, index externalapi.MilestoneIndex) (bool, error)
	Delete(stagingArea *StagingArea, index externalapi.MilestoneIndex)
}
