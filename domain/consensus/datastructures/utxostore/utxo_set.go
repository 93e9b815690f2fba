package utxostore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
)

func utxoKey(outpoint *externalapi.DomainOutpoint) model.DBKey {
	return utxoSetBucket.Key(outpoint.Bytes())
}

// StageAddUTXO stages the creation of an unspent output. Adding an output
// that was removed in the same staging area restores it.
func (us *utxoStore) StageAddUTXO(stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint,
	entry externalapi.UTXOEntry) {

	stagingShard := us.stagingShard(stagingArea)

	if _, ok := stagingShard.toRemove[*outpoint]; ok {
		delete(stagingShard.toRemove, *outpoint)
	} else {
		stagingShard.toAdd[*outpoint] = entry
	}

	stagingShard.supplyAdded += entry.Amount()
	stagingShard.multisetOperations = append(stagingShard.multisetOperations, multisetOperation{
		utxo: serialization.SerializeUTXO(outpoint, entry),
	})
}

// StageRemoveUTXO stages the consumption of an unspent output. entry must
// be the entry currently held by outpoint.
func (us *utxoStore) StageRemoveUTXO(stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint,
	entry externalapi.UTXOEntry) {

	stagingShard := us.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*outpoint]; ok {
		delete(stagingShard.toAdd, *outpoint)
	} else {
		stagingShard.toRemove[*outpoint] = entry
	}

	stagingShard.supplyRemoved += entry.Amount()
	stagingShard.multisetOperations = append(stagingShard.multisetOperations, multisetOperation{
		isRemove: true,
		utxo:     serialization.SerializeUTXO(outpoint, entry),
	})
}

// UTXOEntry returns the unspent output at outpoint, or ErrNotFound
func (us *utxoStore) UTXOEntry(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, error) {

	stagingShard := us.stagingShard(stagingArea)

	if entry, ok := stagingShard.toAdd[*outpoint]; ok {
		return entry, nil
	}

	if _, ok := stagingShard.toRemove[*outpoint]; ok {
		return nil, database.ErrNotFound
	}

	if entry, ok := us.utxoCache.Get(outpoint); ok {
		return entry, nil
	}

	entryBytes, err := dbContext.Get(utxoKey(outpoint))
	if err != nil {
		return nil, err
	}

	entry, err := serialization.DeserializeUTXOEntry(entryBytes)
	if err != nil {
		return nil, err
	}
	us.utxoCache.Add(outpoint, entry)
	return entry, nil
}

func (us *utxoStore) HasUTXOEntry(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (bool, error) {

	stagingShard := us.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*outpoint]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toRemove[*outpoint]; ok {
		return false, nil
	}

	if us.utxoCache.Has(outpoint) {
		return true, nil
	}

	return dbContext.Has(utxoKey(outpoint))
}

// UTXOSetIterator iterates over the committed unspent outputs in outpoint
// order
func (us *utxoStore) UTXOSetIterator(dbContext model.DBReader) (model.ReadOnlyUTXOSetIterator, error) {
	cursor, err := dbContext.Cursor(utxoSetBucket)
	if err != nil {
		return nil, err
	}
	return newCursorUTXOSetIterator(cursor), nil
}

type utxoSetIterator struct {
	cursor model.DBCursor
}

func newCursorUTXOSetIterator(cursor model.DBCursor) model.ReadOnlyUTXOSetIterator {
	return &utxoSetIterator{cursor: cursor}
}

func (u *utxoSetIterator) First() bool {
	return u.cursor.First()
}

func (u *utxoSetIterator) Next() bool {
	return u.cursor.Next()
}

func (u *utxoSetIterator) Get() (outpoint *externalapi.DomainOutpoint, utxoEntry externalapi.UTXOEntry, err error) {
	key, err := u.cursor.Key()
	if err != nil {
		return nil, nil, err
	}

	utxoEntryBytes, err := u.cursor.Value()
	if err != nil {
		return nil, nil, err
	}

	outpoint, err = serialization.OutpointFromKey(key.Suffix())
	if err != nil {
		return nil, nil, err
	}

	utxoEntry, err = serialization.DeserializeUTXOEntry(utxoEntryBytes)
	if err != nil {
		return nil, nil, err
	}

	return outpoint, utxoEntry, nil
}

func (u *utxoSetIterator) Close() error {
	return u.cursor.Close()
}
