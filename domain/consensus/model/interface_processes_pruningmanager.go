package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// PruningManager evicts confirmed history below the retention depth and
// maintains the solid entry points
type PruningManager interface {
	PruningTarget(stagingArea *StagingArea) (targetIndex externalapi.MilestoneIndex, skipReason string, err error)
	PruneMilestone(stagingArea *StagingArea, index externalapi.MilestoneIndex,
		targetIndex externalapi.MilestoneIndex, result *externalapi.PruningResult) error
	PruneUnreferencedBlocks(stagingArea *StagingArea, targetIndex externalapi.MilestoneIndex,
		result *externalapi.PruningResult) error
}
