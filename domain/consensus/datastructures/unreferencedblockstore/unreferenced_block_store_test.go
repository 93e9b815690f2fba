package unreferencedblockstore

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/infrastructure/db/database/memdb"
	"github.com/tanglenet/tangled/util/staging"
)

func TestBlocksUpToIndex(t *testing.T) {
	db := memdb.NewMemDB()
	defer db.Close()
	dbManager := database.New(db)
	store := New()

	hash := func(b byte) *externalapi.DomainHash {
		return externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{b})
	}

	stagingArea := model.NewStagingArea()
	store.Stage(stagingArea, 300, hash(1))
	store.Stage(stagingArea, 2, hash(2))
	store.Stage(stagingArea, 2, hash(3))
	store.Stage(stagingArea, 5, hash(4))
	store.Delete(stagingArea, 2, hash(3))
	err := staging.CommitAllChanges(dbManager, stagingArea)
	if err != nil {
		t.Fatalf("TestBlocksUpToIndex: CommitAllChanges unexpectedly failed: %s", err)
	}

	blocks, err := store.BlocksUpToIndex(dbManager, 5)
	if err != nil {
		t.Fatalf("TestBlocksUpToIndex: BlocksUpToIndex unexpectedly failed: %s", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("TestBlocksUpToIndex: expected 2 blocks but got %d", len(blocks))
	}
	if blocks[0].ArrivalLedgerIndex != 2 || !blocks[0].BlockHash.Equal(hash(2)) {
		t.Fatalf("TestBlocksUpToIndex: unexpected first block %+v", blocks[0])
	}
	if blocks[1].ArrivalLedgerIndex != 5 || !blocks[1].BlockHash.Equal(hash(4)) {
		t.Fatalf("TestBlocksUpToIndex: unexpected second block %+v", blocks[1])
	}
}
