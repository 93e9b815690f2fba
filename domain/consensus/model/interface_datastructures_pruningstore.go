package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// PruningStore represents a store for the pruning index: the highest
// milestone index whose history was evicted
type PruningStore interface {
	Store
	StagePruningIndex(stagingArea *StagingArea, index externalapi.MilestoneIndex)
	PruningIndex(dbContext DBReader, stagingArea *StagingArea) (externalapi.MilestoneIndex, error)
}
