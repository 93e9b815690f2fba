package dagtraversalmanager

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockrelationstore"
	"github.com/tanglenet/tangled/domain/consensus/datastructures/blockstore"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/infrastructure/db/database/memdb"
)

func testHash(b byte) *externalapi.DomainHash {
	return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
}

// testTangle stages the following tangle, where G is not stored:
//
//	G <- A, B
//	A, B <- C
//	C <- D
//	A <- E
func testTangle(t *testing.T) (model.DAGTraversalManager, *model.StagingArea) {
	db := memdb.NewMemDB()
	t.Cleanup(func() { db.Close() })
	dbManager := database.New(db)

	blockStore, err := blockstore.New(dbManager, 10, false)
	if err != nil {
		t.Fatalf("blockstore.New: %s", err)
	}
	blockRelationStore := blockrelationstore.New(10, false)
	stagingArea := model.NewStagingArea()

	g, a, b, c, d, e := testHash(0), testHash(1), testHash(2), testHash(3), testHash(4), testHash(5)
	parents := map[*externalapi.DomainHash][]*externalapi.DomainHash{
		a: {g},
		b: {g},
		c: {a, b},
		d: {c},
		e: {a},
	}
	children := make(map[externalapi.DomainHash][]*externalapi.DomainHash)
	for _, blockHash := range []*externalapi.DomainHash{a, b, c, d, e} {
		blockStore.Stage(stagingArea, blockHash, &externalapi.DomainBlock{Parents: parents[blockHash]})
		for _, parent := range parents[blockHash] {
			children[*parent] = append(children[*parent], blockHash)
		}
	}
	for parent, parentChildren := range children {
		parent := parent
		blockRelationStore.StageChildren(stagingArea, &parent, parentChildren)
	}

	return New(dbManager, blockStore, blockRelationStore), stagingArea
}

func skipGenesis(blockHash *externalapi.DomainHash) (model.TraversalDecision, error) {
	if blockHash.Equal(testHash(0)) {
		return model.TraversalSkip, nil
	}
	return model.TraversalContinue, nil
}

func continueAll(*externalapi.DomainHash) (model.TraversalDecision, error) {
	return model.TraversalContinue, nil
}

func collect(t *testing.T, iterator model.BlockIterator) []*externalapi.DomainHash {
	var hashes []*externalapi.DomainHash
	for ok := iterator.First(); ok; ok = iterator.Next() {
		blockHash, err := iterator.Get()
		if err != nil {
			t.Fatalf("Get unexpectedly failed: %s", err)
		}
		hashes = append(hashes, blockHash)
	}
	return hashes
}

func expectOrder(t *testing.T, testName string, got []*externalapi.DomainHash, expected ...byte) {
	expectedHashes := make([]*externalapi.DomainHash, len(expected))
	for i, b := range expected {
		expectedHashes[i] = testHash(b)
	}
	if !externalapi.HashesEqual(got, expectedHashes) {
		t.Fatalf("%s: expected order %v but got %v", testName, expectedHashes, got)
	}
}

func TestPastConePostOrderDFS(t *testing.T) {
	dtm, stagingArea := testTangle(t)

	iterator := dtm.PastConePostOrderDFS(stagingArea, testHash(4), skipGenesis)
	defer iterator.Close()
	expectOrder(t, "TestPastConePostOrderDFS", collect(t, iterator), 1, 2, 3, 4)

	// The iterator is restartable
	expectOrder(t, "TestPastConePostOrderDFS", collect(t, iterator), 1, 2, 3, 4)
}

func TestPastConePostOrderDFSMissingBlock(t *testing.T) {
	dtm, stagingArea := testTangle(t)

	iterator := dtm.PastConePostOrderDFS(stagingArea, testHash(4), continueAll)
	defer iterator.Close()
	for ok := iterator.First(); ok; ok = iterator.Next() {
		_, err := iterator.Get()
		if err != nil {
			if !database.IsNotFoundError(err) {
				t.Fatalf("TestPastConePostOrderDFSMissingBlock: expected ErrNotFound but got %s", err)
			}
			return
		}
	}
	t.Fatalf("TestPastConePostOrderDFSMissingBlock: expanding a block that is not stored didn't fail")
}

func TestIteratorsEndAfterError(t *testing.T) {
	dtm, stagingArea := testTangle(t)

	iterators := map[string]model.BlockIterator{
		"PastConePostOrderDFS": dtm.PastConePostOrderDFS(stagingArea, testHash(4), continueAll),
		"PastConeBFS":          dtm.PastConeBFS(stagingArea, []*externalapi.DomainHash{testHash(4)}, continueAll),
	}
	for name, iterator := range iterators {
		steps := 0
		var lastErr error
		for ok := iterator.First(); ok; ok = iterator.Next() {
			steps++
			if steps > 10 {
				t.Fatalf("TestIteratorsEndAfterError: %s kept going after failing", name)
			}
			_, lastErr = iterator.Get()
		}
		if !database.IsNotFoundError(lastErr) {
			t.Fatalf("TestIteratorsEndAfterError: %s: expected ErrNotFound as the last result but got %v",
				name, lastErr)
		}
		_, err := iterator.Get()
		if !database.IsNotFoundError(err) {
			t.Fatalf("TestIteratorsEndAfterError: %s: the error is lost after the walk ended: %v", name, err)
		}
		iterator.Close()
	}
}

func TestPastConeBFS(t *testing.T) {
	dtm, stagingArea := testTangle(t)

	iterator := dtm.PastConeBFS(stagingArea, []*externalapi.DomainHash{testHash(4)}, skipGenesis)
	defer iterator.Close()
	expectOrder(t, "TestPastConeBFS", collect(t, iterator), 4, 3, 1, 2)

	stopAtB := func(blockHash *externalapi.DomainHash) (model.TraversalDecision, error) {
		if blockHash.Equal(testHash(2)) {
			return model.TraversalStop, nil
		}
		return skipGenesis(blockHash)
	}
	stopping := dtm.PastConeBFS(stagingArea, []*externalapi.DomainHash{testHash(4)}, stopAtB)
	defer stopping.Close()
	expectOrder(t, "TestPastConeBFS", collect(t, stopping), 4, 3, 1)
}

func TestFutureConeBFS(t *testing.T) {
	dtm, stagingArea := testTangle(t)

	iterator := dtm.FutureConeBFS(stagingArea, []*externalapi.DomainHash{testHash(0)}, continueAll)
	defer iterator.Close()
	expectOrder(t, "TestFutureConeBFS", collect(t, iterator), 0, 1, 2, 3, 5, 4)

	// Duplicate start hashes are yielded once
	duplicates := dtm.FutureConeBFS(stagingArea, []*externalapi.DomainHash{testHash(3), testHash(3)}, continueAll)
	defer duplicates.Close()
	expectOrder(t, "TestFutureConeBFS", collect(t, duplicates), 3, 4)
}
