package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// TraversalDecision is returned by a TraversalCondition for each block a
// walker reaches
type TraversalDecision uint8

const (
	// TraversalContinue yields the block and expands its neighbours
	TraversalContinue TraversalDecision = iota

	// TraversalSkip neither yields nor expands the block
	TraversalSkip

	// TraversalStop ends the walk without yielding the block
	TraversalStop
)

// TraversalCondition decides what a walker does with a block
type TraversalCondition func(blockHash *externalapi.DomainHash) (TraversalDecision, error)

// DAGTraversalManager exposes methods for traversing blocks in the tangle
type DAGTraversalManager interface {
	PastConeBFS(stagingArea *StagingArea, startHashes []*externalapi.DomainHash,
		condition TraversalCondition) BlockIterator
	FutureConeBFS(stagingArea *StagingArea, startHashes []*externalapi.DomainHash,
		condition TraversalCondition) BlockIterator
	PastConePostOrderDFS(stagingArea *StagingArea, startHash *externalapi.DomainHash,
		condition TraversalCondition) BlockIterator
}
