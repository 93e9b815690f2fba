package externalapi

// BlockInfo contains the information a node exposes about a block
type BlockInfo struct {
	Exists            bool
	IsSolidEntryPoint bool
	Status            BlockStatus
	ArrivalTime       int64
	PayloadType       PayloadType

	// Confirmation is nil while the block is not referenced by a milestone
	Confirmation *BlockConfirmation
}

// IsSolid returns whether the block is solid, or is a solid entry point
func (bi *BlockInfo) IsSolid() bool {
	return bi.IsSolidEntryPoint || (bi.Exists && bi.Status == StatusSolid)
}

// InsertBlockResult is the result of inserting a block into the tangle
type InsertBlockResult struct {
	BlockHash *DomainHash
	IsSolid   bool

	// MissingParents are the parents that are neither stored nor solid
	// entry points. Requesting them is the caller's business.
	MissingParents []*DomainHash

	// NewlySolidBlocks are the blocks that became solid because of this
	// insertion, in the order they became solid.
	NewlySolidBlocks []*DomainHash
}

// PruningResult describes what a pruning cycle did
type PruningResult struct {
	Skipped    bool
	SkipReason string

	TargetIndex               MilestoneIndex
	PrunedMilestones          int
	PrunedBlocks              int
	PrunedUnreferencedBlocks  int
	NewSolidEntryPoints       int
	ExpiredSolidEntryPoints   int
	DeletedSpentOutputRecords int
}
