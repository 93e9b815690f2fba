package externalapi

// ConsensusEvent is an event emitted by consensus
type ConsensusEvent interface {
	isConsensusEvent()
}

// BlockSolid is emitted when a block becomes solid. Milestone is set when
// the block carries a milestone payload.
type BlockSolid struct {
	BlockHash *DomainHash
	Milestone *DomainMilestone
}

func (*BlockSolid) isConsensusEvent() {}

// MilestoneConfirmed is emitted after a milestone's white-flag result was
// committed
type MilestoneConfirmed struct {
	Result *ConfirmationResult
}

func (*MilestoneConfirmed) isConsensusEvent() {}

// DatabasePruned is emitted after a pruning cycle that was not skipped
type DatabasePruned struct {
	Result *PruningResult
}

func (*DatabasePruned) isConsensusEvent() {}
