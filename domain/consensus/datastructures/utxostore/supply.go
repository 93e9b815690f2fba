package utxostore

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/binaryserialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/multiset"
)

// Supply returns the sum of the amounts of all unspent outputs, as kept
// incrementally by the store
func (us *utxoStore) Supply(dbContext model.DBReader, stagingArea *model.StagingArea) (uint64, error) {
	return us.supply(dbContext, us.stagingShard(stagingArea))
}

func (us *utxoStore) supply(dbContext model.DBReader, stagingShard *utxoStagingShard) (uint64, error) {
	committedSupply, err := us.committedSupply(dbContext)
	if err != nil {
		return 0, err
	}

	if committedSupply > math.MaxUint64-stagingShard.supplyAdded {
		return 0, errors.Errorf("supply overflows: committed %d, added %d",
			committedSupply, stagingShard.supplyAdded)
	}
	supply := committedSupply + stagingShard.supplyAdded
	if supply < stagingShard.supplyRemoved {
		return 0, errors.Errorf("supply underflows: committed %d, added %d, removed %d",
			committedSupply, stagingShard.supplyAdded, stagingShard.supplyRemoved)
	}
	return supply - stagingShard.supplyRemoved, nil
}

func (us *utxoStore) committedSupply(dbContext model.DBReader) (uint64, error) {
	us.lock.Lock()
	defer us.lock.Unlock()

	if us.supplyCached != nil {
		return *us.supplyCached, nil
	}

	supplyBytes, err := dbContext.Get(supplyKey)
	if database.IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	supply, err := binaryserialization.DeserializeUint64(supplyBytes)
	if err != nil {
		return 0, err
	}
	us.supplyCached = &supply
	return supply, nil
}

// CalculateSupply sums the amounts of the unspent outputs by scanning the
// whole set, staged changes included
func (us *utxoStore) CalculateSupply(dbContext model.DBReader, stagingArea *model.StagingArea) (uint64, error) {
	stagingShard := us.stagingShard(stagingArea)

	iterator, err := us.UTXOSetIterator(dbContext)
	if err != nil {
		return 0, err
	}
	defer iterator.Close()

	supply := uint64(0)
	addAmount := func(amount uint64) error {
		if supply > math.MaxUint64-amount {
			return errors.New("the unspent outputs sum overflows")
		}
		supply += amount
		return nil
	}

	for ok := iterator.First(); ok; ok = iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return 0, err
		}
		if _, ok := stagingShard.toRemove[*outpoint]; ok {
			continue
		}
		err = addAmount(entry.Amount())
		if err != nil {
			return 0, err
		}
	}

	for _, entry := range stagingShard.toAdd {
		err = addAmount(entry.Amount())
		if err != nil {
			return 0, err
		}
	}

	return supply, nil
}

// LedgerStateHash returns the MuHash commitment of the unspent output set
func (us *utxoStore) LedgerStateHash(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainHash, error) {
	ms, err := us.multiset(dbContext, us.stagingShard(stagingArea))
	if err != nil {
		return nil, err
	}
	return ms.Hash(), nil
}

func (us *utxoStore) multiset(dbContext model.DBReader, stagingShard *utxoStagingShard) (model.Multiset, error) {
	committedMultiset, err := us.committedMultiset(dbContext)
	if err != nil {
		return nil, err
	}

	ms := committedMultiset.Clone()
	for _, operation := range stagingShard.multisetOperations {
		if operation.isRemove {
			ms.Remove(operation.utxo)
		} else {
			ms.Add(operation.utxo)
		}
	}
	return ms, nil
}

func (us *utxoStore) committedMultiset(dbContext model.DBReader) (model.Multiset, error) {
	us.lock.Lock()
	defer us.lock.Unlock()

	if us.multisetCached != nil {
		return us.multisetCached, nil
	}

	multisetBytes, err := dbContext.Get(multisetKey)
	if database.IsNotFoundError(err) {
		return multiset.New(), nil
	}
	if err != nil {
		return nil, err
	}
	ms, err := multiset.FromBytes(multisetBytes)
	if err != nil {
		return nil, err
	}
	us.multisetCached = ms
	return ms, nil
}
