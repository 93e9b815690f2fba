package externalapi

// BlockStatus represents the solidity of a block
type BlockStatus byte

const (
	// StatusUnsolid indicates that at least one block in the past cone of
	// the block is missing
	StatusUnsolid BlockStatus = iota

	// StatusSolid indicates that every parent of the block is solid or a
	// solid entry point
	StatusSolid
)

var blockStatusStrings = map[BlockStatus]string{
	StatusUnsolid: "Unsolid",
	StatusSolid:   "Solid",
}

func (bs BlockStatus) String() string {
	return blockStatusStrings[bs]
}

// BlockStatusData is the mutable ingestion metadata of a block
type BlockStatusData struct {
	Status             BlockStatus
	ArrivalTime        int64
	ArrivalLedgerIndex MilestoneIndex
}

// Clone returns a clone of BlockStatusData
func (bsd *BlockStatusData) Clone() *BlockStatusData {
	clone := *bsd
	return &clone
}

// SolidEntryPoint is a pruned block kept as a valid parent for retained
// blocks.
type SolidEntryPoint struct {
	ConfirmedIndex MilestoneIndex
	PrunedAtIndex  MilestoneIndex
}
