package model

// The IDs of the staging shards of the consensus stores
const (
	StagingShardIDBlock             StagingShardID = "BlockStore"
	StagingShardIDBlockRelation     StagingShardID = "BlockRelationStore"
	StagingShardIDBlockStatus       StagingShardID = "BlockStatusStore"
	StagingShardIDBlockConfirmation StagingShardID = "BlockConfirmationStore"
	StagingShardIDMilestone         StagingShardID = "MilestoneStore"
	StagingShardIDMilestoneDiff     StagingShardID = "MilestoneDiffStore"
	StagingShardIDSolidEntryPoint   StagingShardID = "SolidEntryPointStore"
	StagingShardIDUTXO              StagingShardID = "UTXOStore"
	StagingShardIDPruning           StagingShardID = "PruningStore"
	StagingShardIDUnreferencedBlock StagingShardID = "UnreferencedBlockStore"
)
