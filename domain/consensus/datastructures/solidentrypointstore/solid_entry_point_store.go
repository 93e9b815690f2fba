package solidentrypointstore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/lrucache"
)

var bucket = database.MakeBucket([]byte("solid-entry-points"))

// solidEntryPointStore represents a store of the pruned blocks that are
// still valid parents
type solidEntryPointStore struct {
	cache *lrucache.LRUCache
}

// New instantiates a new SolidEntryPointStore
func New(cacheSize int, preallocate bool) model.SolidEntryPointStore {
	return &solidEntryPointStore{
		cache: lrucache.New(cacheSize, preallocate),
	}
}

func (seps *solidEntryPointStore) Stage(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash,
	solidEntryPoint *externalapi.SolidEntryPoint) {

	stagingShard := seps.stagingShard(stagingArea)
	delete(stagingShard.toDelete, *blockHash)
	solidEntryPointClone := *solidEntryPoint
	stagingShard.toAdd[*blockHash] = &solidEntryPointClone
}

func (seps *solidEntryPointStore) IsStaged(stagingArea *model.StagingArea) bool {
	return seps.stagingShard(stagingArea).isStaged()
}

func (seps *solidEntryPointStore) Get(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (*externalapi.SolidEntryPoint, error) {

	stagingShard := seps.stagingShard(stagingArea)

	if solidEntryPoint, ok := stagingShard.toAdd[*blockHash]; ok {
		clone := *solidEntryPoint
		return &clone, nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return nil, database.ErrNotFound
	}

	if solidEntryPoint, ok := seps.cache.Get(blockHash); ok {
		clone := *solidEntryPoint.(*externalapi.SolidEntryPoint)
		return &clone, nil
	}

	solidEntryPointBytes, err := dbContext.Get(seps.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	solidEntryPoint, err := serialization.DBSolidEntryPointToSolidEntryPoint(solidEntryPointBytes)
	if err != nil {
		return nil, err
	}
	seps.cache.Add(blockHash, solidEntryPoint)
	clone := *solidEntryPoint
	return &clone, nil
}

func (seps *solidEntryPointStore) Has(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash *externalapi.DomainHash) (bool, error) {

	stagingShard := seps.stagingShard(stagingArea)

	if _, ok := stagingShard.toAdd[*blockHash]; ok {
		return true, nil
	}

	if _, ok := stagingShard.toDelete[*blockHash]; ok {
		return false, nil
	}

	if seps.cache.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(seps.hashAsKey(blockHash))
}

func (seps *solidEntryPointStore) Delete(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) {
	stagingShard := seps.stagingShard(stagingArea)

	delete(stagingShard.toAdd, *blockHash)
	stagingShard.toDelete[*blockHash] = struct{}{}
}

// All returns every solid entry point, staged changes included
func (seps *solidEntryPointStore) All(dbContext model.DBReader, stagingArea *model.StagingArea) (
	map[externalapi.DomainHash]*externalapi.SolidEntryPoint, error) {

	stagingShard := seps.stagingShard(stagingArea)

	cursor, err := dbContext.Cursor(bucket)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	solidEntryPoints := make(map[externalapi.DomainHash]*externalapi.SolidEntryPoint)
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return nil, err
		}
		blockHash, err := externalapi.NewDomainHashFromByteSlice(key.Suffix())
		if err != nil {
			return nil, err
		}
		if _, ok := stagingShard.toDelete[*blockHash]; ok {
			continue
		}
		solidEntryPointBytes, err := cursor.Value()
		if err != nil {
			return nil, err
		}
		solidEntryPoint, err := serialization.DBSolidEntryPointToSolidEntryPoint(solidEntryPointBytes)
		if err != nil {
			return nil, err
		}
		solidEntryPoints[*blockHash] = solidEntryPoint
	}

	for hash, solidEntryPoint := range stagingShard.toAdd {
		clone := *solidEntryPoint
		solidEntryPoints[hash] = &clone
	}

	return solidEntryPoints, nil
}

func (seps *solidEntryPointStore) serializeSolidEntryPoint(solidEntryPoint *externalapi.SolidEntryPoint) []byte {
	return serialization.SolidEntryPointToDBSolidEntryPoint(solidEntryPoint)
}

func (seps *solidEntryPointStore) hashAsKey(hash *externalapi.DomainHash) model.DBKey {
	return bucket.Key(hash.ByteSlice())
}
