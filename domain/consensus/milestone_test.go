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
	"github.com/tanglenet/tangled/domain/consensus/utils/testutils"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxo"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

func TestSequentialMilestones(t *testing.T) {
	config, _ := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestSequentialMilestones")
	defer teardown()

	tip := genesisHash
	for index := externalapi.MilestoneIndex(1); index <= 5; index++ {
		tip = addMilestone(t, tc, hashes(tip), index)
		confirmMilestone(t, tc, tip)
	}

	milestone6 := addMilestone(t, tc, hashes(tip), 6)
	taggedBlock := addBlock(t, tc, hashes(milestone6), &externalapi.DomainTaggedData{Data: []byte{7}})
	milestone7 := addMilestone(t, tc, hashes(taggedBlock), 7)

	_, err := tc.ConfirmMilestone(milestone7)
	if !errors.Is(err, ruleerrors.ErrOutOfSequence) || !ruleerrors.IsFatal(err) {
		t.Fatalf("TestSequentialMilestones: expected a fatal ErrOutOfSequence but got %v", err)
	}
	assertLedgerIndex(t, tc, 5)
	for _, blockHash := range hashes(milestone6, taggedBlock, milestone7) {
		blockInfo, err := tc.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("TestSequentialMilestones: GetBlockInfo unexpectedly failed: %s", err)
		}
		if blockInfo.Confirmation != nil {
			t.Fatalf("TestSequentialMilestones: block %s was confirmed by an out of sequence milestone",
				blockHash)
		}
	}

	confirmMilestone(t, tc, milestone6)
	assertLedgerIndex(t, tc, 6)

	result := confirmMilestone(t, tc, milestone7)
	assertLedgerIndex(t, tc, 7)
	if len(result.Order) != 2 || !result.Order[0].BlockHash.Equal(taggedBlock) ||
		!result.Order[1].BlockHash.Equal(milestone7) {
		t.Fatalf("TestSequentialMilestones: milestone 7 should reference exactly the tagged block and itself")
	}
	if blockConfirmation(t, tc, milestone6).ReferencedByIndex != 6 {
		t.Fatalf("TestSequentialMilestones: milestone 6 was re-referenced by milestone 7")
	}

	// Confirming an already confirmed milestone is out of sequence too
	_, err = tc.ConfirmMilestone(milestone6)
	if !errors.Is(err, ruleerrors.ErrOutOfSequence) {
		t.Fatalf("TestSequentialMilestones: expected ErrOutOfSequence but got %v", err)
	}
}

func TestApplyMilestoneMutations(t *testing.T) {
	config, genesisKey := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestApplyMilestoneMutations")
	defer teardown()

	_, address := testutils.GenerateKey(t)
	tx := testutils.SignedTransaction(t, genesisKey, outpoints(config.GenesisOutpoint()),
		testutils.Output(config.TotalSupply, address))
	createdOutpoint := testutils.OutputOutpoint(tx, 0)
	mutations := &externalapi.UTXOMutations{
		Consumed: outpoints(config.GenesisOutpoint()),
		Created: []*externalapi.OutpointAndUTXOEntryPair{{
			Outpoint:  createdOutpoint,
			UTXOEntry: utxo.NewUTXOEntry(config.TotalSupply, address, 1),
		}},
	}

	err := tc.ApplyMilestoneMutations(2, mutations)
	if !errors.Is(err, ruleerrors.ErrOutOfSequence) {
		t.Fatalf("TestApplyMilestoneMutations: expected ErrOutOfSequence but got %v", err)
	}
	assertLedgerIndex(t, tc, 0)

	unbalanced := &externalapi.UTXOMutations{
		Consumed: mutations.Consumed,
		Created: []*externalapi.OutpointAndUTXOEntryPair{{
			Outpoint:  createdOutpoint,
			UTXOEntry: utxo.NewUTXOEntry(config.TotalSupply-1, address, 1),
		}},
	}
	err = tc.ApplyMilestoneMutations(1, unbalanced)
	if !errors.Is(err, ruleerrors.ErrSupplyInvariantViolation) || !ruleerrors.IsFatal(err) {
		t.Fatalf("TestApplyMilestoneMutations: expected a fatal ErrSupplyInvariantViolation but got %v", err)
	}
	assertLedgerIndex(t, tc, 0)

	err = tc.ApplyMilestoneMutations(1, mutations)
	if err != nil {
		t.Fatalf("TestApplyMilestoneMutations: ApplyMilestoneMutations unexpectedly failed: %s", err)
	}
	assertLedgerIndex(t, tc, 1)
	entry, found, err := tc.GetUTXOEntry(createdOutpoint)
	if err != nil {
		t.Fatalf("TestApplyMilestoneMutations: GetUTXOEntry unexpectedly failed: %s", err)
	}
	if !found || entry.Amount() != config.TotalSupply {
		t.Fatalf("TestApplyMilestoneMutations: the created output is missing")
	}

	// The genesis output is gone, so consuming it again is inconsistent
	err = tc.ApplyMilestoneMutations(2, mutations)
	if !errors.Is(err, ruleerrors.ErrLedgerInconsistency) {
		t.Fatalf("TestApplyMilestoneMutations: expected ErrLedgerInconsistency but got %v", err)
	}
	assertLedgerIndex(t, tc, 1)
}

func TestConfirmMilestoneErrors(t *testing.T) {
	config, _ := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestConfirmMilestoneErrors")
	defer teardown()

	taggedBlock := addBlock(t, tc, hashes(genesisHash), &externalapi.DomainTaggedData{})
	_, err := tc.ConfirmMilestone(taggedBlock)
	if !errors.Is(err, ruleerrors.ErrNotAMilestone) {
		t.Fatalf("TestConfirmMilestoneErrors: expected ErrNotAMilestone but got %v", err)
	}

	unknownHash := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xff})
	_, err = tc.ConfirmMilestone(unknownHash)
	if !errors.Is(err, ruleerrors.ErrMilestoneNotSolid) {
		t.Fatalf("TestConfirmMilestoneErrors: expected ErrMilestoneNotSolid for an unknown block but got %v", err)
	}

	missingParent := tc.BuildBlockWithParents(hashes(genesisHash), &externalapi.DomainTaggedData{})
	unsolidMilestone := addMilestone(t, tc, hashes(consensushashing.BlockHash(missingParent)), 1)
	_, err = tc.ConfirmMilestone(unsolidMilestone)
	if !errors.Is(err, ruleerrors.ErrMilestoneNotSolid) {
		t.Fatalf("TestConfirmMilestoneErrors: expected ErrMilestoneNotSolid but got %v", err)
	}
	if ruleerrors.IsFatal(err) {
		t.Fatalf("TestConfirmMilestoneErrors: an unsolid milestone is not fatal")
	}

	_, err = tc.ValidateAndInsertBlock(missingParent)
	if err != nil {
		t.Fatalf("TestConfirmMilestoneErrors: ValidateAndInsertBlock unexpectedly failed: %s", err)
	}
	confirmMilestone(t, tc, unsolidMilestone)
	assertLedgerIndex(t, tc, 1)
}

func TestWhiteFlagDeterminism(t *testing.T) {
	testutils.ForAllNets(t, func(t *testing.T, config *consensus.Config, genesisKey *secp256k1.SchnorrKeyPair) {
		tc, teardown := newTestConsensus(t, config, "TestWhiteFlagDeterminism")
		defer teardown()
		tcReversed, teardownReversed := newTestConsensus(t, config, "TestWhiteFlagDeterminism")
		defer teardownReversed()

		_, firstAddress := testutils.GenerateKey(t)
		_, secondAddress := testutils.GenerateKey(t)
		firstSpend := tc.BuildBlockWithParents(hashes(genesisHash), testutils.SignedTransaction(t, genesisKey,
			outpoints(config.GenesisOutpoint()), testutils.Output(config.TotalSupply, firstAddress)))
		secondSpend := tc.BuildBlockWithParents(hashes(genesisHash), testutils.SignedTransaction(t, genesisKey,
			outpoints(config.GenesisOutpoint()), testutils.Output(config.TotalSupply, secondAddress)))
		merge := tc.BuildBlockWithParents(
			hashes(consensushashing.BlockHash(firstSpend), consensushashing.BlockHash(secondSpend)),
			&externalapi.DomainTaggedData{Tag: []byte("merge")})
		milestone := tc.BuildBlockWithParents(hashes(consensushashing.BlockHash(merge)),
			&externalapi.DomainMilestone{Index: 1})
		blocks := []*externalapi.DomainBlock{firstSpend, secondSpend, merge, milestone}

		for _, block := range blocks {
			_, err := tc.ValidateAndInsertBlock(block)
			if err != nil {
				t.Fatalf("TestWhiteFlagDeterminism: ValidateAndInsertBlock unexpectedly failed: %s", err)
			}
		}
		for i := len(blocks) - 1; i >= 0; i-- {
			_, err := tcReversed.ValidateAndInsertBlock(blocks[i])
			if err != nil {
				t.Fatalf("TestWhiteFlagDeterminism: ValidateAndInsertBlock unexpectedly failed: %s", err)
			}
		}

		milestoneHash := consensushashing.BlockHash(milestone)
		result := confirmMilestone(t, tc, milestoneHash)
		reversedResult := confirmMilestone(t, tcReversed, milestoneHash)

		if len(result.Order) != len(blocks) || len(reversedResult.Order) != len(blocks) {
			t.Fatalf("TestWhiteFlagDeterminism: expected %d blocks in the white-flag order", len(blocks))
		}
		for i := range result.Order {
			entry, reversedEntry := result.Order[i], reversedResult.Order[i]
			if !entry.BlockHash.Equal(reversedEntry.BlockHash) ||
				entry.Classification != reversedEntry.Classification ||
				entry.ConflictReason != reversedEntry.ConflictReason {
				t.Fatalf("TestWhiteFlagDeterminism: the white-flag order differs at position %d", i)
			}
		}
		if len(result.IncludedBlockHashes()) != 1 {
			t.Fatalf("TestWhiteFlagDeterminism: exactly one of the spends should be included")
		}
		if !result.InclusionMerkleRoot.Equal(reversedResult.InclusionMerkleRoot) ||
			!result.AppliedMerkleRoot.Equal(reversedResult.AppliedMerkleRoot) {
			t.Fatalf("TestWhiteFlagDeterminism: the merkle roots differ")
		}

		ledgerStateHash, err := tc.LedgerStateHash()
		if err != nil {
			t.Fatalf("TestWhiteFlagDeterminism: LedgerStateHash unexpectedly failed: %s", err)
		}
		reversedLedgerStateHash, err := tcReversed.LedgerStateHash()
		if err != nil {
			t.Fatalf("TestWhiteFlagDeterminism: LedgerStateHash unexpectedly failed: %s", err)
		}
		if !ledgerStateHash.Equal(reversedLedgerStateHash) {
			t.Fatalf("TestWhiteFlagDeterminism: the ledgers differ: %s != %s",
				ledgerStateHash, reversedLedgerStateHash)
		}
	})
}

func TestConcurrentConfirmation(t *testing.T) {
	config, _ := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestConcurrentConfirmation")
	defer teardown()

	milestone := addMilestone(t, tc, hashes(genesisHash), 1)

	const confirmers = 8
	errs := make([]error, confirmers)
	wg := sync.WaitGroup{}
	wg.Add(confirmers)
	for i := 0; i < confirmers; i++ {
		i := i
		go func() {
			defer wg.Done()
			_, errs[i] = tc.ConfirmMilestone(milestone)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, ruleerrors.ErrOutOfSequence) {
			t.Fatalf("TestConcurrentConfirmation: expected ErrOutOfSequence but got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("TestConcurrentConfirmation: %d confirmations succeeded instead of one", succeeded)
	}
	assertLedgerIndex(t, tc, 1)

	confirmedEvents := 0
	for _, event := range tc.DrainEvents() {
		if _, ok := event.(*externalapi.MilestoneConfirmed); ok {
			confirmedEvents++
		}
	}
	if confirmedEvents != 1 {
		t.Fatalf("TestConcurrentConfirmation: got %d MilestoneConfirmed events instead of one", confirmedEvents)
	}
}

func TestLedgerReadsDuringConfirmation(t *testing.T) {
	config, genesisKey := testutils.NewTestConfig(t, &dagconfig.SimnetParams)
	tc, teardown := newTestConsensus(t, config, "TestLedgerReadsDuringConfirmation")
	defer teardown()

	const transfers = 20
	key := genesisKey
	spentOutpoints := make([]*externalapi.DomainOutpoint, 0, transfers)
	transactions := make([]*externalapi.DomainTransaction, 0, transfers)
	outpoint := config.GenesisOutpoint()
	for i := 0; i < transfers; i++ {
		nextKey, nextAddress := testutils.GenerateKey(t)
		tx := testutils.SignedTransaction(t, key, outpoints(outpoint),
			testutils.Output(config.TotalSupply, nextAddress))
		transactions = append(transactions, tx)
		spentOutpoints = append(spentOutpoints, outpoint)
		key, outpoint = nextKey, testutils.OutputOutpoint(tx, 0)
	}
	lastOutpoint := outpoint
	chainOutpoints := append(append([]*externalapi.DomainOutpoint{}, spentOutpoints...), lastOutpoint)

	// Readers keep hitting every outpoint of the chain while the ledger moves
	done := make(chan struct{})
	readErrs := make(chan error, 4)
	wg := sync.WaitGroup{}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				for _, chainOutpoint := range chainOutpoints {
					_, _, err := tc.GetUTXOEntry(chainOutpoint)
					if err != nil {
						readErrs <- err
						return
					}
					_, _, err = tc.GetSpentOutput(chainOutpoint)
					if err != nil {
						readErrs <- err
						return
					}
				}
				_, err := tc.LedgerIndex()
				if err != nil {
					readErrs <- err
					return
				}
			}
		}()
	}

	tip := genesisHash
	for i, tx := range transactions {
		tip = addBlock(t, tc, hashes(tip), tx)
		tip = addMilestone(t, tc, hashes(tip), externalapi.MilestoneIndex(i+1))
		confirmMilestone(t, tc, tip)
	}
	close(done)
	wg.Wait()
	close(readErrs)
	for err := range readErrs {
		t.Fatalf("TestLedgerReadsDuringConfirmation: a concurrent ledger read failed: %s", err)
	}

	for _, spentOutpoint := range spentOutpoints {
		_, found, err := tc.GetUTXOEntry(spentOutpoint)
		if err != nil {
			t.Fatalf("TestLedgerReadsDuringConfirmation: GetUTXOEntry unexpectedly failed: %s", err)
		}
		if found {
			t.Fatalf("TestLedgerReadsDuringConfirmation: spent output %s is reported unspent", spentOutpoint)
		}
	}
	_, found, err := tc.GetUTXOEntry(lastOutpoint)
	if err != nil {
		t.Fatalf("TestLedgerReadsDuringConfirmation: GetUTXOEntry unexpectedly failed: %s", err)
	}
	if !found {
		t.Fatalf("TestLedgerReadsDuringConfirmation: the last output is missing")
	}

	// Spending the genesis output again must still be a conflict
	_, otherAddress := testutils.GenerateKey(t)
	doubleSpend := testutils.SignedTransaction(t, genesisKey, outpoints(config.GenesisOutpoint()),
		testutils.Output(config.TotalSupply, otherAddress))
	doubleSpendBlock := addBlock(t, tc, hashes(tip), doubleSpend)
	milestone := addMilestone(t, tc, hashes(doubleSpendBlock), transfers+1)
	confirmMilestone(t, tc, milestone)

	confirmation := blockConfirmation(t, tc, doubleSpendBlock)
	if confirmation.Classification != externalapi.ClassificationConflictIgnored ||
		confirmation.ConflictReason != externalapi.ConflictInputAlreadySpent {
		t.Fatalf("TestLedgerReadsDuringConfirmation: the double spend is %s(%s) instead of "+
			"ConflictIgnored(InputAlreadySpent)", confirmation.Classification, confirmation.ConflictReason)
	}
}

func assertLedgerIndex(t *testing.T, tc consensus.TestConsensus, expected externalapi.MilestoneIndex) {
	ledgerIndex, err := tc.LedgerIndex()
	if err != nil {
		t.Fatalf("LedgerIndex unexpectedly failed: %s", err)
	}
	if ledgerIndex != expected {
		t.Fatalf("expected ledger index %d but got %d", expected, ledgerIndex)
	}
}
