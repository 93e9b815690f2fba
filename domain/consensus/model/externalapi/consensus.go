package externalapi

import (
	"context"
	"io"
)

// Consensus maintains the current core state of the node
type Consensus interface {
	ValidateAndInsertBlock(block *DomainBlock) (*InsertBlockResult, error)
	ConfirmMilestone(milestoneHash *DomainHash) (*ConfirmationResult, error)
	ApplyMilestoneMutations(index MilestoneIndex, mutations *UTXOMutations) error
	PruneDatabase(ctx context.Context) (*PruningResult, error)

	GetBlock(blockHash *DomainHash) (*DomainBlock, error)
	HasBlock(blockHash *DomainHash) (bool, error)
	GetBlockInfo(blockHash *DomainHash) (*BlockInfo, error)
	GetBlockChildren(blockHash *DomainHash) ([]*DomainHash, error)
	IsSolidEntryPoint(blockHash *DomainHash) (bool, error)
	SolidEntryPoints() (map[DomainHash]*SolidEntryPoint, error)
	MilestoneHashByIndex(index MilestoneIndex) (*DomainHash, error)

	LedgerIndex() (MilestoneIndex, error)
	PruningIndex() (MilestoneIndex, error)
	GetUTXOEntry(outpoint *DomainOutpoint) (UTXOEntry, bool, error)
	GetSpentOutput(outpoint *DomainOutpoint) (*SpentOutput, bool, error)
	LedgerStateHash() (*DomainHash, error)

	ImportSnapshot(reader io.Reader) error
	ExportSnapshot(writer io.Writer) error
	ExportDeltaSnapshot(writer io.Writer, fromIndex MilestoneIndex) error
}
