package utxostore

import (
	"sync"

	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxolrucache"
)

var (
	utxoSetBucket      = database.MakeBucket([]byte("utxo-set"))
	spentOutputsBucket = database.MakeBucket([]byte("spent-outputs"))

	ledgerIndexKey = database.MakeBucket(nil).Key([]byte("ledger-index"))
	supplyKey      = database.MakeBucket(nil).Key([]byte("ledger-supply"))
	multisetKey    = database.MakeBucket(nil).Key([]byte("ledger-multiset"))
)

// utxoStore represents the ledger state
type utxoStore struct {
	utxoCache *utxolrucache.LRUCache

	lock              sync.Mutex
	ledgerIndexCached *externalapi.MilestoneIndex
	supplyCached      *uint64
	multisetCached    model.Multiset
}

// New instantiates a new UTXOStore
func New(utxoCacheSize int, preallocate bool) model.UTXOStore {
	return &utxoStore{
		utxoCache: utxolrucache.New(utxoCacheSize, preallocate),
	}
}

func (us *utxoStore) IsStaged(stagingArea *model.StagingArea) bool {
	return us.stagingShard(stagingArea).isStaged()
}

// IsInitialized returns whether a ledger index was ever committed
func (us *utxoStore) IsInitialized(dbContext model.DBReader) (bool, error) {
	us.lock.Lock()
	isCached := us.ledgerIndexCached != nil
	us.lock.Unlock()
	if isCached {
		return true, nil
	}

	return dbContext.Has(ledgerIndexKey)
}

// StageLedgerIndex stages the index of the last applied milestone
func (us *utxoStore) StageLedgerIndex(stagingArea *model.StagingArea, index externalapi.MilestoneIndex) {
	stagingShard := us.stagingShard(stagingArea)
	stagingShard.newLedgerIndex = &index
}

// LedgerIndex returns the index of the last applied milestone
func (us *utxoStore) LedgerIndex(dbContext model.DBReader, stagingArea *model.StagingArea) (externalapi.MilestoneIndex, error) {
	stagingShard := us.stagingShard(stagingArea)

	if stagingShard.newLedgerIndex != nil {
		return *stagingShard.newLedgerIndex, nil
	}

	us.lock.Lock()
	defer us.lock.Unlock()

	if us.ledgerIndexCached != nil {
		return *us.ledgerIndexCached, nil
	}

	indexBytes, err := dbContext.Get(ledgerIndexKey)
	if err != nil {
		return 0, err
	}
	index, err := binaryserialization.DeserializeMilestoneIndex(indexBytes)
	if err != nil {
		return 0, err
	}
	us.ledgerIndexCached = &index
	return index, nil
}

func (us *utxoStore) setLedgerIndexCached(index externalapi.MilestoneIndex) {
	us.lock.Lock()
	defer us.lock.Unlock()

	us.ledgerIndexCached = &index
}

func (us *utxoStore) setSupplyAndMultisetCached(supply uint64, multiset model.Multiset) {
	us.lock.Lock()
	defer us.lock.Unlock()

	us.supplyCached = &supply
	us.multisetCached = multiset
}
