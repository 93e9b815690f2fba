package consensus_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/testutils"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

func newPruningTestConfig(t *testing.T) (*consensus.Config, *secp256k1.SchnorrKeyPair) {
	config, genesisKey := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	config.PruningDepth = 1
	config.PruningMinMilestonesToKeep = 1
	return config, genesisKey
}

func pruneDatabase(t *testing.T, tc consensus.TestConsensus) *externalapi.PruningResult {
	result, err := tc.PruneDatabase(context.Background())
	if err != nil {
		t.Fatalf("PruneDatabase unexpectedly failed: %s", err)
	}
	return result
}

func TestSolidEntryPointPreservation(t *testing.T) {
	config, genesisKey := newPruningTestConfig(t)
	tc, teardown := newTestConsensus(t, config, "TestSolidEntryPointPreservation")
	defer teardown()

	_, address := testutils.GenerateKey(t)
	tx := testutils.SignedTransaction(t, genesisKey, outpoints(config.GenesisOutpoint()),
		testutils.Output(config.TotalSupply, address))

	blockP := addBlock(t, tc, hashes(genesisHash), tx)
	milestone1 := addMilestone(t, tc, hashes(blockP), 1)
	confirmMilestone(t, tc, milestone1)

	blockQ := addBlock(t, tc, hashes(blockP), &externalapi.DomainTaggedData{Data: []byte("q")})
	milestone2 := addMilestone(t, tc, hashes(blockQ), 2)
	confirmMilestone(t, tc, milestone2)
	tc.DrainEvents()

	result := pruneDatabase(t, tc)
	if result.Skipped || result.TargetIndex != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: expected a cycle up to index 1 but got %+v", result)
	}
	if result.PrunedMilestones != 1 || result.PrunedBlocks != 2 || result.NewSolidEntryPoints != 1 ||
		result.ExpiredSolidEntryPoints != 1 || result.DeletedSpentOutputRecords != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: unexpected pruning result %+v", result)
	}

	for _, blockHash := range hashes(blockP, milestone1) {
		exists, err := tc.HasBlock(blockHash)
		if err != nil {
			t.Fatalf("TestSolidEntryPointPreservation: HasBlock unexpectedly failed: %s", err)
		}
		if exists {
			t.Fatalf("TestSolidEntryPointPreservation: block %s survived pruning", blockHash)
		}
	}

	solidEntryPoints, err := tc.SolidEntryPoints()
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: SolidEntryPoints unexpectedly failed: %s", err)
	}
	if len(solidEntryPoints) != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: expected a single solid entry point but got %d",
			len(solidEntryPoints))
	}
	solidEntryPoint, ok := solidEntryPoints[*blockP]
	if !ok {
		t.Fatalf("TestSolidEntryPointPreservation: P is not a solid entry point")
	}
	if solidEntryPoint.ConfirmedIndex != 1 || solidEntryPoint.PrunedAtIndex != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: unexpected solid entry point %+v", solidEntryPoint)
	}
	isGenesisSolidEntryPoint, err := tc.IsSolidEntryPoint(genesisHash)
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: IsSolidEntryPoint unexpectedly failed: %s", err)
	}
	if isGenesisSolidEntryPoint {
		t.Fatalf("TestSolidEntryPointPreservation: the genesis should have expired with its last child")
	}

	blockInfo, err := tc.GetBlockInfo(blockP)
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: GetBlockInfo unexpectedly failed: %s", err)
	}
	if blockInfo.Exists || !blockInfo.IsSolid() {
		t.Fatalf("TestSolidEntryPointPreservation: P should be solid through its solid entry point only")
	}

	_, err = tc.MilestoneHashByIndex(1)
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestSolidEntryPointPreservation: expected milestone 1 to be gone but got %v", err)
	}
	_, found, err := tc.GetSpentOutput(config.GenesisOutpoint())
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: GetSpentOutput unexpectedly failed: %s", err)
	}
	if found {
		t.Fatalf("TestSolidEntryPointPreservation: the spent record of milestone 1 survived pruning")
	}
	entry, found, err := tc.GetUTXOEntry(testutils.OutputOutpoint(tx, 0))
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: GetUTXOEntry unexpectedly failed: %s", err)
	}
	if !found || entry.Amount() != config.TotalSupply {
		t.Fatalf("TestSolidEntryPointPreservation: pruning touched the unspent outputs")
	}
	pruningIndex, err := tc.PruningIndex()
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: PruningIndex unexpectedly failed: %s", err)
	}
	if pruningIndex != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: expected pruning index 1 but got %d", pruningIndex)
	}

	prunedEvents := 0
	for _, event := range tc.DrainEvents() {
		if _, ok := event.(*externalapi.DatabasePruned); ok {
			prunedEvents++
		}
	}
	if prunedEvents != 1 {
		t.Fatalf("TestSolidEntryPointPreservation: got %d DatabasePruned events instead of one", prunedEvents)
	}

	// New blocks may still attach to P, and white-flag stops at it
	_, insertResult, err := tc.AddBlock(hashes(blockP), &externalapi.DomainTaggedData{Data: []byte("r")})
	if err != nil {
		t.Fatalf("TestSolidEntryPointPreservation: AddBlock unexpectedly failed: %s", err)
	}
	if !insertResult.IsSolid {
		t.Fatalf("TestSolidEntryPointPreservation: a block over a solid entry point is not solid")
	}
	milestone3 := addMilestone(t, tc, hashes(insertResult.BlockHash, milestone2), 3)
	confirmation := confirmMilestone(t, tc, milestone3)
	if len(confirmation.Order) != 2 {
		t.Fatalf("TestSolidEntryPointPreservation: milestone 3 should reference exactly 2 blocks but got %d",
			len(confirmation.Order))
	}

	secondCycle := pruneDatabase(t, tc)
	if secondCycle.Skipped || secondCycle.TargetIndex != 2 {
		t.Fatalf("TestSolidEntryPointPreservation: expected a second cycle up to index 2 but got %+v", secondCycle)
	}
}

func TestPruneUnreferencedBlocks(t *testing.T) {
	config, _ := newPruningTestConfig(t)
	tc, teardown := newTestConsensus(t, config, "TestPruneUnreferencedBlocks")
	defer teardown()

	unreferenced := addBlock(t, tc, hashes(genesisHash), &externalapi.DomainTaggedData{Data: []byte("u")})
	unreferencedChild := addBlock(t, tc, hashes(unreferenced), &externalapi.DomainTaggedData{Data: []byte("v")})

	milestone1 := addMilestone(t, tc, hashes(genesisHash), 1)
	confirmMilestone(t, tc, milestone1)
	milestone2 := addMilestone(t, tc, hashes(milestone1), 2)
	confirmMilestone(t, tc, milestone2)

	result := pruneDatabase(t, tc)
	if result.PrunedUnreferencedBlocks != 2 {
		t.Fatalf("TestPruneUnreferencedBlocks: expected 2 unreferenced blocks to be evicted but got %+v", result)
	}
	for _, blockHash := range hashes(unreferenced, unreferencedChild, milestone1) {
		exists, err := tc.HasBlock(blockHash)
		if err != nil {
			t.Fatalf("TestPruneUnreferencedBlocks: HasBlock unexpectedly failed: %s", err)
		}
		if exists {
			t.Fatalf("TestPruneUnreferencedBlocks: block %s survived pruning", blockHash)
		}
	}
	exists, err := tc.HasBlock(milestone2)
	if err != nil {
		t.Fatalf("TestPruneUnreferencedBlocks: HasBlock unexpectedly failed: %s", err)
	}
	if !exists {
		t.Fatalf("TestPruneUnreferencedBlocks: milestone 2 was pruned")
	}

	isSolidEntryPoint, err := tc.IsSolidEntryPoint(milestone1)
	if err != nil {
		t.Fatalf("TestPruneUnreferencedBlocks: IsSolidEntryPoint unexpectedly failed: %s", err)
	}
	if !isSolidEntryPoint {
		t.Fatalf("TestPruneUnreferencedBlocks: milestone 1 should be kept as a solid entry point")
	}
	isSolidEntryPoint, err = tc.IsSolidEntryPoint(genesisHash)
	if err != nil {
		t.Fatalf("TestPruneUnreferencedBlocks: IsSolidEntryPoint unexpectedly failed: %s", err)
	}
	if isSolidEntryPoint {
		t.Fatalf("TestPruneUnreferencedBlocks: the genesis outlived its last child")
	}
}

func TestPruneDatabaseSkipped(t *testing.T) {
	config, _ := newPruningTestConfig(t)
	config.EnablePruning = false
	tc, teardown := newTestConsensus(t, config, "TestPruneDatabaseSkipped")
	defer teardown()

	tip := genesisHash
	for index := externalapi.MilestoneIndex(1); index <= 3; index++ {
		tip = addMilestone(t, tc, hashes(tip), index)
		confirmMilestone(t, tc, tip)
	}
	tc.DrainEvents()

	result := pruneDatabase(t, tc)
	if !result.Skipped || result.SkipReason == "" {
		t.Fatalf("TestPruneDatabaseSkipped: disabled pruning ran a cycle: %+v", result)
	}
	if len(tc.DrainEvents()) != 0 {
		t.Fatalf("TestPruneDatabaseSkipped: a skipped cycle sent an event")
	}

	config, _ = newPruningTestConfig(t)
	config.PruningDepth = 5
	tcShallow, teardownShallow := newTestConsensus(t, config, "TestPruneDatabaseSkipped")
	defer teardownShallow()
	result = pruneDatabase(t, tcShallow)
	if !result.Skipped {
		t.Fatalf("TestPruneDatabaseSkipped: pruning ran with the ledger below the pruning depth")
	}
}

func TestPruneDatabaseCancelled(t *testing.T) {
	config, _ := newPruningTestConfig(t)
	tc, teardown := newTestConsensus(t, config, "TestPruneDatabaseCancelled")
	defer teardown()

	tip := genesisHash
	for index := externalapi.MilestoneIndex(1); index <= 4; index++ {
		tip = addMilestone(t, tc, hashes(tip), index)
		confirmMilestone(t, tc, tip)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tc.PruneDatabase(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("TestPruneDatabaseCancelled: expected context.Canceled but got %v", err)
	}
	pruningIndex, err := tc.PruningIndex()
	if err != nil {
		t.Fatalf("TestPruneDatabaseCancelled: PruningIndex unexpectedly failed: %s", err)
	}
	if pruningIndex != 0 {
		t.Fatalf("TestPruneDatabaseCancelled: a cancelled cycle pruned up to %d", pruningIndex)
	}

	result := pruneDatabase(t, tc)
	if result.TargetIndex != 3 || result.PrunedMilestones != 3 {
		t.Fatalf("TestPruneDatabaseCancelled: unexpected result of the resumed cycle %+v", result)
	}
}

// TestPruningKeepsParentsReachable builds random tangles, confirming and
// pruning after every milestone, and checks that every retained block can
// still reach each of its parents either in the block store or as a solid
// entry point
func TestPruningKeepsParentsReachable(t *testing.T) {
	const (
		seeds           = 5
		cycles          = 10
		maxRoundBlocks  = 4
		maxBlockParents = 3
	)

	for seed := int64(0); seed < seeds; seed++ {
		testName := fmt.Sprintf("TestPruningKeepsParentsReachable(seed %d)", seed)
		config, _ := newPruningTestConfig(t)
		tc, teardown := newTestConsensus(t, config, testName)
		random := rand.New(rand.NewSource(seed))

		allBlocks := hashes(genesisHash)
		candidates := hashes(genesisHash)
		lastMilestone := genesisHash
		for index := externalapi.MilestoneIndex(1); index <= cycles; index++ {
			roundSize := 1 + random.Intn(maxRoundBlocks)
			roundBlocks := make([]*externalapi.DomainHash, 0, roundSize)
			for i := 0; i < roundSize; i++ {
				parentCount := 1 + random.Intn(maxBlockParents)
				if parentCount > len(candidates) {
					parentCount = len(candidates)
				}
				parents := make([]*externalapi.DomainHash, 0, parentCount)
				for _, candidateIndex := range random.Perm(len(candidates))[:parentCount] {
					parents = append(parents, candidates[candidateIndex])
				}
				blockHash := addBlock(t, tc, parents, &externalapi.DomainTaggedData{Data: []byte{byte(index), byte(i)}})
				roundBlocks = append(roundBlocks, blockHash)
			}

			milestoneParents := hashes(lastMilestone)
			for _, roundIndex := range random.Perm(len(roundBlocks))[:random.Intn(len(roundBlocks)+1)] {
				if len(milestoneParents) == maxBlockParents {
					break
				}
				milestoneParents = append(milestoneParents, roundBlocks[roundIndex])
			}
			lastMilestone = addMilestone(t, tc, milestoneParents, index)
			confirmMilestone(t, tc, lastMilestone)
			pruneDatabase(t, tc)
			tc.DrainEvents()

			allBlocks = append(append(allBlocks, roundBlocks...), lastMilestone)
			candidates = candidates[:0]
			for _, blockHash := range allBlocks {
				retained, err := isRetained(tc, blockHash)
				if err != nil {
					t.Fatalf("%s: isRetained unexpectedly failed: %s", testName, err)
				}
				if retained {
					candidates = append(candidates, blockHash)
				}
			}
			assertParentsReachable(t, tc, testName, allBlocks)
		}
		teardown()
	}
}

func isRetained(tc consensus.TestConsensus, blockHash *externalapi.DomainHash) (bool, error) {
	exists, err := tc.HasBlock(blockHash)
	if err != nil || exists {
		return exists, err
	}
	return tc.IsSolidEntryPoint(blockHash)
}

func assertParentsReachable(t *testing.T, tc consensus.TestConsensus, testName string,
	blockHashes []*externalapi.DomainHash) {

	for _, blockHash := range blockHashes {
		exists, err := tc.HasBlock(blockHash)
		if err != nil {
			t.Fatalf("%s: HasBlock unexpectedly failed: %s", testName, err)
		}
		if !exists {
			continue
		}
		block, err := tc.GetBlock(blockHash)
		if err != nil {
			t.Fatalf("%s: GetBlock unexpectedly failed: %s", testName, err)
		}
		for _, parent := range block.Parents {
			retained, err := isRetained(tc, parent)
			if err != nil {
				t.Fatalf("%s: isRetained unexpectedly failed: %s", testName, err)
			}
			if !retained {
				t.Fatalf("%s: parent %s of retained block %s is neither stored nor a solid entry point",
					testName, parent, blockHash)
			}
		}
	}
}
