package utxostore

import (
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
)

type multisetOperation struct {
	isRemove bool
	utxo     []byte
}

type utxoStagingShard struct {
	store *utxoStore

	newLedgerIndex *externalapi.MilestoneIndex

	toAdd    map[externalapi.DomainOutpoint]externalapi.UTXOEntry
	toRemove map[externalapi.DomainOutpoint]externalapi.UTXOEntry

	supplyAdded        uint64
	supplyRemoved      uint64
	multisetOperations []multisetOperation

	spentToAdd    map[externalapi.DomainOutpoint]*externalapi.SpentOutput
	spentToDelete map[externalapi.DomainOutpoint]struct{}
}

func (us *utxoStore) stagingShard(stagingArea *model.StagingArea) *utxoStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDUTXO, func() model.StagingShard {
		return &utxoStagingShard{
			store:         us,
			toAdd:         make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry),
			toRemove:      make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry),
			spentToAdd:    make(map[externalapi.DomainOutpoint]*externalapi.SpentOutput),
			spentToDelete: make(map[externalapi.DomainOutpoint]struct{}),
		}
	}).(*utxoStagingShard)
}

func (uss *utxoStagingShard) Commit(dbTx model.DBTransaction) error {
	// The supply and the multiset are derived from the committed state, so
	// they must be computed before any entry is written.
	var newSupply uint64
	var newMultiset model.Multiset
	utxoSetChanged := uss.utxoSetChanged()
	if utxoSetChanged {
		var err error
		newSupply, err = uss.store.supply(dbTx, uss)
		if err != nil {
			return err
		}
		newMultiset, err = uss.store.multiset(dbTx, uss)
		if err != nil {
			return err
		}
	}

	for outpoint := range uss.toRemove {
		outpoint := outpoint
		err := dbTx.Delete(utxoKey(&outpoint))
		if err != nil {
			return err
		}
		uss.store.utxoCache.Remove(&outpoint)
	}

	for outpoint, entry := range uss.toAdd {
		outpoint := outpoint
		err := dbTx.Put(utxoKey(&outpoint), serialization.SerializeUTXOEntry(entry))
		if err != nil {
			return err
		}
		uss.store.utxoCache.Add(&outpoint, entry)
	}

	if utxoSetChanged {
		err := dbTx.Put(supplyKey, binaryserialization.SerializeUint64(newSupply))
		if err != nil {
			return err
		}
		err = dbTx.Put(multisetKey, newMultiset.Serialize())
		if err != nil {
			return err
		}
		uss.store.setSupplyAndMultisetCached(newSupply, newMultiset)
	}

	if uss.newLedgerIndex != nil {
		err := dbTx.Put(ledgerIndexKey, binaryserialization.SerializeMilestoneIndex(*uss.newLedgerIndex))
		if err != nil {
			return err
		}
		uss.store.setLedgerIndexCached(*uss.newLedgerIndex)
	}

	for outpoint, spentOutput := range uss.spentToAdd {
		outpoint := outpoint
		err := dbTx.Put(spentOutputKey(&outpoint), serializeSpentOutput(spentOutput))
		if err != nil {
			return err
		}
	}

	for outpoint := range uss.spentToDelete {
		outpoint := outpoint
		err := dbTx.Delete(spentOutputKey(&outpoint))
		if err != nil {
			return err
		}
	}

	return nil
}

func (uss *utxoStagingShard) utxoSetChanged() bool {
	return len(uss.multisetOperations) != 0
}

func (uss *utxoStagingShard) isStaged() bool {
	return uss.newLedgerIndex != nil ||
		len(uss.multisetOperations) != 0 ||
		len(uss.spentToAdd) != 0 ||
		len(uss.spentToDelete) != 0
}
