package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// MilestoneStore represents a store of milestone index to milestone block
type MilestoneStore interface {
	Store
	Stage(stagingArea *StagingArea, index externalapi.MilestoneIndex, milestoneHash *externalapi.DomainHash)
	MilestoneHash(dbContext DBReader, stagingArea *StagingArea, index externalapi.MilestoneIndex) (*externalapi.DomainHash, error)
	Has(dbContext DBReader, stagingArea *StagingArea, index externalapi.MilestoneIndex) (bool, error)
	Delete(stagingArea *StagingArea, index externalapi.MilestoneIndex)
}
