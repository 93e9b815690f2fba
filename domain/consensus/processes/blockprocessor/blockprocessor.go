package blockprocessor

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

// blockProcessor is responsible for inserting incoming blocks into the
// tangle and for tracking their solidity
type blockProcessor struct {
	dagParams       *dagconfig.Params
	databaseContext model.DBReader
	timeSource      func() int64

	blockStore             model.BlockStore
	blockStatusStore       model.BlockStatusStore
	blockRelationStore     model.BlockRelationStore
	solidEntryPointStore   model.SolidEntryPointStore
	unreferencedBlockStore model.UnreferencedBlockStore
	milestoneStore         model.MilestoneStore
	utxoStore              model.UTXOStore
}

// New instantiates a new BlockProcessor. timeSource returns the current
// time as unix milliseconds.
func New(
	dagParams *dagconfig.Params,
	databaseContext model.DBReader,
	timeSource func() int64,
	blockStore model.BlockStore,
	blockStatusStore model.BlockStatusStore,
	blockRelationStore model.BlockRelationStore,
	solidEntryPointStore model.SolidEntryPointStore,
	unreferencedBlockStore model.UnreferencedBlockStore,
	milestoneStore model.MilestoneStore,
	utxoStore model.UTXOStore) model.BlockProcessor {

	return &blockProcessor{
		dagParams:       dagParams,
		databaseContext: databaseContext,
		timeSource:      timeSource,

		blockStore:             blockStore,
		blockStatusStore:       blockStatusStore,
		blockRelationStore:     blockRelationStore,
		solidEntryPointStore:   solidEntryPointStore,
		unreferencedBlockStore: unreferencedBlockStore,
		milestoneStore:         milestoneStore,
		utxoStore:              utxoStore,
	}
}
