package consensus

import (
	"sync/atomic"

	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
)

const testEventsBufferSize = 10_000

// TestConsensus wraps a Consensus with helpers for building tangles and
// with access to its internals
type TestConsensus interface {
	externalapi.Consensus

	Config() *Config
	DatabaseContext() model.DBManager

	// BuildBlockWithParents returns a block over the given parents. The
	// parents are sorted and every call gets a distinct nonce, so two
	// calls never build the same block.
	BuildBlockWithParents(parentHashes []*externalapi.DomainHash,
		payload externalapi.DomainPayload) *externalapi.DomainBlock

	// AddBlock builds a block with BuildBlockWithParents and inserts it
	AddBlock(parentHashes []*externalapi.DomainHash, payload externalapi.DomainPayload) (
		*externalapi.DomainHash, *externalapi.InsertBlockResult, error)

	// DrainEvents returns the events sent since the last call
	DrainEvents() []externalapi.ConsensusEvent

	BlockStore() model.BlockStore
	BlockStatusStore() model.BlockStatusStore
	BlockRelationStore() model.BlockRelationStore
	BlockConfirmationStore() model.BlockConfirmationStore
	SolidEntryPointStore() model.SolidEntryPointStore
	PruningStore() model.PruningStore

	BlockProcessor() model.BlockProcessor
	WhiteFlagManager() model.WhiteFlagManager
	LedgerManager() model.LedgerManager
	PruningManager() model.PruningManager
}

type testConsensus struct {
	*consensus
	testName            string
	config              *Config
	consensusEventsChan chan externalapi.ConsensusEvent
	nextNonce           uint64
}

func (tc *testConsensus) Config() *Config {
	return tc.config
}

func (tc *testConsensus) DatabaseContext() model.DBManager {
	return tc.databaseContext
}

func (tc *testConsensus) BuildBlockWithParents(parentHashes []*externalapi.DomainHash,
	payload externalapi.DomainPayload) *externalapi.DomainBlock {

	parents := externalapi.CloneHashes(parentHashes)
	hashes.Sort(parents)
	return &externalapi.DomainBlock{
		Parents: parents,
		Payload: payload,
		Nonce:   atomic.AddUint64(&tc.nextNonce, 1),
	}
}

func (tc *testConsensus) AddBlock(parentHashes []*externalapi.DomainHash, payload externalapi.DomainPayload) (
	*externalapi.DomainHash, *externalapi.InsertBlockResult, error) {

	block := tc.BuildBlockWithParents(parentHashes, payload)
	result, err := tc.ValidateAndInsertBlock(block)
	if err != nil {
		return nil, nil, err
	}
	return consensushashing.BlockHash(block), result, nil
}

func (tc *testConsensus) DrainEvents() []externalapi.ConsensusEvent {
	var events []externalapi.ConsensusEvent
	for {
		select {
		case event := <-tc.consensusEventsChan:
			events = append(events, event)
		default:
			return events
		}
	}
}

func (tc *testConsensus) BlockStore() model.BlockStore {
	return tc.blockStore
}

func (tc *testConsensus) BlockStatusStore() model.BlockStatusStore {
	return tc.blockStatusStore
}

func (tc *testConsensus) BlockRelationStore() model.BlockRelationStore {
	return tc.blockRelationStore
}

func (tc *testConsensus) BlockConfirmationStore() model.BlockConfirmationStore {
	return tc.blockConfirmationStore
}

func (tc *testConsensus) SolidEntryPointStore() model.SolidEntryPointStore {
	return tc.solidEntryPointStore
}

func (tc *testConsensus) PruningStore() model.PruningStore {
	return tc.pruningStore
}

func (tc *testConsensus) BlockProcessor() model.BlockProcessor {
	return tc.blockProcessor
}

func (tc *testConsensus) WhiteFlagManager() model.WhiteFlagManager {
	return tc.whiteFlagManager
}

func (tc *testConsensus) LedgerManager() model.LedgerManager {
	return tc.ledgerManager
}

func (tc *testConsensus) PruningManager() model.PruningManager {
	return tc.pruningManager
}
