package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// WhiteFlagManager orders and classifies the past cone of a milestone
type WhiteFlagManager interface {
	ComputeWhiteFlagMutations(stagingArea *StagingArea, milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error)
	ConfirmMilestone(stagingArea *StagingArea, milestoneHash *externalapi.DomainHash) (*externalapi.ConfirmationResult, error)
}
