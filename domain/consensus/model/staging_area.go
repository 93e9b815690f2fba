package model

import (
	"sort"

	"github.com/pkg/errors"
)

// StagingShard is the set of changes one store made inside a StagingArea
type StagingShard interface {
	Commit(dbTx DBTransaction) error
}

// StagingShardID names the shard of a store
type StagingShardID string

// StagingArea collects the staged changes of all stores for one consensus
// operation, so they can be committed in a single database transaction
type StagingArea struct {
	shards      map[StagingShardID]StagingShard
	isCommitted bool
}

// NewStagingArea creates a new, empty staging area.
func NewStagingArea() *StagingArea {
	return &StagingArea{
		shards:      make(map[StagingShardID]StagingShard),
		isCommitted: false,
	}
}

// GetOrCreateShard attempts to retrieve a shard with the given name.
// If it does not exist - a new shard is created using `createFunc`.
func (sa *StagingArea) GetOrCreateShard(shardID StagingShardID, createFunc func() StagingShard) StagingShard {
	if _, ok := sa.shards[shardID]; !ok {
		sa.shards[shardID] = createFunc()
	}
	return sa.shards[shardID]
}

// Commit writes all the staged changes of all shards into dbTx. A staging
// area can be committed only once.
func (sa *StagingArea) Commit(dbTx DBTransaction) error {
	if sa.isCommitted {
		return errors.New("Attempt to call Commit on already committed stagingArea")
	}

	shardIDs := make([]StagingShardID, 0, len(sa.shards))
	for shardID := range sa.shards {
		shardIDs = append(shardIDs, shardID)
	}
	sort.Slice(shardIDs, func(i, j int) bool { return shardIDs[i] < shardIDs[j] })

	for _, shardID := range shardIDs {
		err := sa.shards[shardID].Commit(dbTx)
		if err != nil {
			return err
		}
	}

	sa.isCommitted = true
	return nil
}
