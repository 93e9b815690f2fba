package consensus_test

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

var genesisHash = dagconfig.GenesisBlockHash()

func newTestConsensus(t *testing.T, config *consensus.Config, testName string) (consensus.TestConsensus, func()) {
	tc, teardown, err := consensus.NewFactory().NewTestConsensus(config, testName)
	if err != nil {
		t.Fatalf("%s: NewTestConsensus unexpectedly failed: %s", testName, err)
	}
	return tc, teardown
}

func addBlock(t *testing.T, tc consensus.TestConsensus, parents []*externalapi.DomainHash,
	payload externalapi.DomainPayload) *externalapi.DomainHash {

	blockHash, _, err := tc.AddBlock(parents, payload)
	if err != nil {
		t.Fatalf("AddBlock unexpectedly failed: %s", err)
	}
	return blockHash
}

func addMilestone(t *testing.T, tc consensus.TestConsensus, parents []*externalapi.DomainHash,
	index externalapi.MilestoneIndex) *externalapi.DomainHash {

	return addBlock(t, tc, parents, &externalapi.DomainMilestone{Index: index, Timestamp: int64(index)})
}

func confirmMilestone(t *testing.T, tc consensus.TestConsensus,
	milestoneHash *externalapi.DomainHash) *externalapi.ConfirmationResult {

	result, err := tc.ConfirmMilestone(milestoneHash)
	if err != nil {
		t.Fatalf("ConfirmMilestone unexpectedly failed: %s", err)
	}
	return result
}

func blockConfirmation(t *testing.T, tc consensus.TestConsensus,
	blockHash *externalapi.DomainHash) *externalapi.BlockConfirmation {

	blockInfo, err := tc.GetBlockInfo(blockHash)
	if err != nil {
		t.Fatalf("GetBlockInfo unexpectedly failed: %s", err)
	}
	if blockInfo.Confirmation == nil {
		t.Fatalf("block %s is not confirmed", blockHash)
	}
	return blockInfo.Confirmation
}

func hashes(blockHashes ...*externalapi.DomainHash) []*externalapi.DomainHash {
	return blockHashes
}
