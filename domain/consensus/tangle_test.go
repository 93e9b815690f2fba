package consensus_test

import (
	"sync"
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	hashutils "github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
	"github.com/tanglenet/tangled/domain/consensus/utils/testutils"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

func TestSolidification(t *testing.T) {
	config, _ := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestSolidification")
	defer teardown()
	tc.DrainEvents()

	blockA := tc.BuildBlockWithParents(hashes(genesisHash), &externalapi.DomainTaggedData{Data: []byte("a")})
	hashA := consensushashing.BlockHash(blockA)
	blockB := tc.BuildBlockWithParents(hashes(hashA), &externalapi.DomainTaggedData{Data: []byte("b")})
	hashB := consensushashing.BlockHash(blockB)
	blockC := tc.BuildBlockWithParents(hashes(hashA, hashB), &externalapi.DomainTaggedData{Data: []byte("c")})
	hashC := consensushashing.BlockHash(blockC)
	milestone := tc.BuildBlockWithParents(hashes(hashC), &externalapi.DomainMilestone{Index: 1})
	milestoneHash := consensushashing.BlockHash(milestone)

	result, err := tc.ValidateAndInsertBlock(milestone)
	if err != nil {
		t.Fatalf("TestSolidification: ValidateAndInsertBlock unexpectedly failed: %s", err)
	}
	if result.IsSolid || len(result.MissingParents) != 1 || !result.MissingParents[0].Equal(hashC) {
		t.Fatalf("TestSolidification: the milestone should be unsolid and miss exactly its parent")
	}

	for _, block := range []*externalapi.DomainBlock{blockC, blockB} {
		result, err = tc.ValidateAndInsertBlock(block)
		if err != nil {
			t.Fatalf("TestSolidification: ValidateAndInsertBlock unexpectedly failed: %s", err)
		}
		if result.IsSolid || len(result.NewlySolidBlocks) != 0 {
			t.Fatalf("TestSolidification: block %s became solid before its past cone arrived", result.BlockHash)
		}
	}
	if len(tc.DrainEvents()) != 0 {
		t.Fatalf("TestSolidification: events were sent for unsolid blocks")
	}

	blockInfo, err := tc.GetBlockInfo(milestoneHash)
	if err != nil {
		t.Fatalf("TestSolidification: GetBlockInfo unexpectedly failed: %s", err)
	}
	if !blockInfo.Exists || blockInfo.IsSolid() || blockInfo.PayloadType != externalapi.PayloadTypeMilestone {
		t.Fatalf("TestSolidification: unexpected info for the unsolid milestone: %+v", blockInfo)
	}

	result, err = tc.ValidateAndInsertBlock(blockA)
	if err != nil {
		t.Fatalf("TestSolidification: ValidateAndInsertBlock unexpectedly failed: %s", err)
	}
	if !result.IsSolid || len(result.MissingParents) != 0 {
		t.Fatalf("TestSolidification: a block over a solid entry point should be solid")
	}
	expectedSolid := hashes(hashA, hashB, hashC, milestoneHash)
	if !externalapi.HashesEqual(result.NewlySolidBlocks, expectedSolid) {
		t.Fatalf("TestSolidification: expected %v to become solid in that order but got %v",
			hashutils.ToStrings(expectedSolid), hashutils.ToStrings(result.NewlySolidBlocks))
	}

	events := tc.DrainEvents()
	if len(events) != len(expectedSolid) {
		t.Fatalf("TestSolidification: expected %d events but got %d", len(expectedSolid), len(events))
	}
	for i, event := range events {
		solidEvent, ok := event.(*externalapi.BlockSolid)
		if !ok {
			t.Fatalf("TestSolidification: unexpected event %T", event)
		}
		if !solidEvent.BlockHash.Equal(expectedSolid[i]) {
			t.Fatalf("TestSolidification: event %d is for %s instead of %s", i, solidEvent.BlockHash, expectedSolid[i])
		}
		isMilestone := solidEvent.BlockHash.Equal(milestoneHash)
		if isMilestone != (solidEvent.Milestone != nil) {
			t.Fatalf("TestSolidification: the event of %s has a wrong milestone", solidEvent.BlockHash)
		}
	}

	for _, blockHash := range expectedSolid {
		blockInfo, err := tc.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("TestSolidification: GetBlockInfo unexpectedly failed: %s", err)
		}
		if !blockInfo.IsSolid() {
			t.Fatalf("TestSolidification: block %s is not solid", blockHash)
		}
	}

	children, err := tc.GetBlockChildren(hashA)
	if err != nil {
		t.Fatalf("TestSolidification: GetBlockChildren unexpectedly failed: %s", err)
	}
	childSet := hashset.New()
	for _, child := range children {
		childSet.Add(child)
	}
	if childSet.Length() != 2 || !childSet.Contains(hashB) || !childSet.Contains(hashC) {
		t.Fatalf("TestSolidification: unexpected children of A: %v", hashutils.ToStrings(children))
	}

	milestoneByIndex, err := tc.MilestoneHashByIndex(1)
	if err != nil {
		t.Fatalf("TestSolidification: MilestoneHashByIndex unexpectedly failed: %s", err)
	}
	if !milestoneByIndex.Equal(milestoneHash) {
		t.Fatalf("TestSolidification: milestone 1 is %s instead of %s", milestoneByIndex, milestoneHash)
	}
}

func TestValidateAndInsertBlockErrors(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, config *consensus.Config, _ *secp256k1.SchnorrKeyPair) {
		tc, teardown := newTestConsensus(t, config, "TestValidateAndInsertBlockErrors")
		defer teardown()

		block := tc.BuildBlockWithParents(hashes(genesisHash), &externalapi.DomainTaggedData{})
		_, err := tc.ValidateAndInsertBlock(block)
		if err != nil {
			t.Fatalf("TestValidateAndInsertBlockErrors: ValidateAndInsertBlock unexpectedly failed: %s", err)
		}
		blockHash := consensushashing.BlockHash(block)

		tooManyParents := make([]*externalapi.DomainHash, config.MaxBlockParents+1)
		for i := range tooManyParents {
			tooManyParents[i] = externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{byte(i + 1)})
		}
		unsortedParents := hashes(genesisHash, blockHash)
		if hashutils.Less(genesisHash, blockHash) {
			unsortedParents = hashes(blockHash, genesisHash)
		}

		tests := []struct {
			name          string
			block         *externalapi.DomainBlock
			expectedError error
		}{
			{
				name:          "duplicate block",
				block:         block,
				expectedError: ruleerrors.ErrDuplicateBlock,
			},
			{
				name:          "no parents",
				block:         &externalapi.DomainBlock{Payload: &externalapi.DomainTaggedData{}},
				expectedError: ruleerrors.ErrNoParents,
			},
			{
				name:          "too many parents",
				block:         tc.BuildBlockWithParents(tooManyParents, &externalapi.DomainTaggedData{}),
				expectedError: ruleerrors.ErrTooManyParents,
			},
			{
				name: "unsorted parents",
				block: &externalapi.DomainBlock{
					Parents: unsortedParents,
					Payload: &externalapi.DomainTaggedData{},
				},
				expectedError: ruleerrors.ErrParentsNotSorted,
			},
			{
				name: "duplicate parents",
				block: &externalapi.DomainBlock{
					Parents: hashes(blockHash, blockHash),
					Payload: &externalapi.DomainTaggedData{},
				},
				expectedError: ruleerrors.ErrParentsNotSorted,
			},
		}
		for _, test := range tests {
			_, err := tc.ValidateAndInsertBlock(test.block)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("TestValidateAndInsertBlockErrors: %s: expected %s but got %v",
					test.name, test.expectedError, err)
			}
			if !ruleerrors.IsRuleError(err) || ruleerrors.IsFatal(err) {
				t.Fatalf("TestValidateAndInsertBlockErrors: %s: %v is not a plain rule error", test.name, err)
			}
		}

		milestone := addMilestone(t, tc, hashes(blockHash), 1)
		_, _, err = tc.AddBlock(hashes(blockHash), &externalapi.DomainMilestone{Index: 1, Timestamp: 2})
		if !errors.Is(err, ruleerrors.ErrDuplicateMilestoneIndex) {
			t.Fatalf("TestValidateAndInsertBlockErrors: expected ErrDuplicateMilestoneIndex but got %v", err)
		}
		confirmMilestone(t, tc, milestone)
		_, _, err = tc.AddBlock(hashes(milestone), &externalapi.DomainMilestone{Index: 1, Timestamp: 3})
		if !errors.Is(err, ruleerrors.ErrMilestoneTooOld) {
			t.Fatalf("TestValidateAndInsertBlockErrors: expected ErrMilestoneTooOld but got %v", err)
		}
	})
}

func TestConcurrentInserts(t *testing.T) {
	config, _ := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestConcurrentInserts")
	defer teardown()

	const (
		inserters         = 8
		blocksPerInserter = 25
	)
	inserted := make([][]*externalapi.DomainHash, inserters)
	errs := make([]error, inserters)
	wg := sync.WaitGroup{}
	wg.Add(inserters)
	for i := 0; i < inserters; i++ {
		i := i
		go func() {
			defer wg.Done()
			tip := genesisHash
			for j := 0; j < blocksPerInserter; j++ {
				parents := hashes(tip)
				if j > 0 {
					parents = append(parents, genesisHash)
				}
				blockHash, _, err := tc.AddBlock(parents, &externalapi.DomainTaggedData{Data: []byte{byte(i), byte(j)}})
				if err != nil {
					errs[i] = err
					return
				}
				inserted[i] = append(inserted[i], blockHash)
				tip = blockHash
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("TestConcurrentInserts: inserter %d failed: %s", i, err)
		}
	}
	for _, blockHashes := range inserted {
		for _, blockHash := range blockHashes {
			blockInfo, err := tc.GetBlockInfo(blockHash)
			if err != nil {
				t.Fatalf("TestConcurrentInserts: GetBlockInfo unexpectedly failed: %s", err)
			}
			if !blockInfo.IsSolid() {
				t.Fatalf("TestConcurrentInserts: block %s is not solid", blockHash)
			}
		}
	}

	children, err := tc.GetBlockChildren(genesisHash)
	if err != nil {
		t.Fatalf("TestConcurrentInserts: GetBlockChildren unexpectedly failed: %s", err)
	}
	if len(children) < inserters {
		t.Fatalf("TestConcurrentInserts: the genesis has %d children, fewer than %d", len(children), inserters)
	}
}
