package memdb

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/tanglenet/tangled/infrastructure/db/database"
	"github.com/tanglenet/tangled/infrastructure/db/database/ldb"
)

const initialCapacity = 4 * 1024 * 1024

// MemDB is an in-memory database backed by goleveldb's skiplist. Writes of a
// transaction are applied under a lock so readers never observe half of a
// commit through Get or Has.
type MemDB struct {
	db       *memdb.DB
	lock     sync.RWMutex
	isClosed bool
}

// NewMemDB returns an empty in-memory database.
func NewMemDB() *MemDB {
	return &MemDB{db: memdb.New(comparer.DefaultComparer, initialCapacity)}
}

// Put sets the value for the given key.
func (db *MemDB) Put(key *database.Key, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.isClosed {
		return errors.New("cannot put into a closed database")
	}
	return errors.WithStack(db.db.Put(key.Bytes(), value))
}

// Get gets a copy of the value for the given key. It returns ErrNotFound if
// the given key does not exist.
func (db *MemDB) Get(key *database.Key) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.isClosed {
		return nil, errors.New("cannot get from a closed database")
	}
	return db.get(key)
}

func (db *MemDB) get(key *database.Key) ([]byte, error) {
	data, err := db.db.Get(key.Bytes())
	if err != nil {
		if errors.Is(err, memdb.ErrNotFound) {
			return nil, errors.Wrapf(database.ErrNotFound, "key %s not found", key)
		}
		return nil, errors.WithStack(err)
	}
	return append([]byte(nil), data...), nil
}

// Has returns true if the database contains the given key.
func (db *MemDB) Has(key *database.Key) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.isClosed {
		return false, errors.New("cannot has from a closed database")
	}
	return db.db.Contains(key.Bytes()), nil
}

// Delete deletes the value for the given key.
func (db *MemDB) Delete(key *database.Key) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.isClosed {
		return errors.New("cannot delete from a closed database")
	}
	err := db.db.Delete(key.Bytes())
	if err != nil && !errors.Is(err, memdb.ErrNotFound) {
		return errors.WithStack(err)
	}
	return nil
}

// Cursor begins a new cursor over the given bucket.
func (db *MemDB) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.isClosed {
		return nil, errors.New("cannot open a cursor on a closed database")
	}
	return ldb.NewLevelDBCursor(db.db.NewIterator(util.BytesPrefix(bucket.Path())), bucket), nil
}

// Begin begins a new transaction. Its writes are buffered until Commit.
func (db *MemDB) Begin() (database.Transaction, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.isClosed {
		return nil, errors.New("cannot begin a transaction on a closed database")
	}
	return newTransaction(db), nil
}

// Compact is a no-op for the in-memory database.
func (db *MemDB) Compact() error {
	return nil
}

// Close releases the in-memory data.
func (db *MemDB) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.isClosed {
		return errors.New("cannot close an already closed database")
	}
	db.isClosed = true
	db.db.Reset()
	return nil
}
