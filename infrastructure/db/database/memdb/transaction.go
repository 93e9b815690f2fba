package memdb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/tanglenet/tangled/infrastructure/db/database"
)

// transaction buffers writes in a leveldb batch and replays them into the
// skiplist on Commit. Reads go straight to the database.
type transaction struct {
	db       *MemDB
	batch    *leveldb.Batch
	isClosed bool
}

func newTransaction(db *MemDB) *transaction {
	return &transaction{db: db, batch: new(leveldb.Batch)}
}

// batchReplayer adapts memdb.DB to leveldb.BatchReplay.
type batchReplayer struct {
	db  *memdb.DB
	err error
}

func (r *batchReplayer) Put(key, value []byte) {
	if r.err != nil {
		return
	}
	r.err = r.db.Put(key, value)
}

func (r *batchReplayer) Delete(key []byte) {
	if r.err != nil {
		return
	}
	err := r.db.Delete(key)
	if err != nil && !errors.Is(err, memdb.ErrNotFound) {
		r.err = err
	}
}

func (tx *transaction) Commit() error {
	if tx.isClosed {
		return errors.New("cannot commit a closed transaction")
	}
	tx.isClosed = true

	tx.db.lock.Lock()
	defer tx.db.lock.Unlock()

	if tx.db.isClosed {
		return errors.New("cannot commit into a closed database")
	}
	replayer := &batchReplayer{db: tx.db.db}
	err := tx.batch.Replay(replayer)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(replayer.err)
}

func (tx *transaction) Rollback() error {
	if tx.isClosed {
		return errors.New("cannot rollback a closed transaction")
	}
	tx.isClosed = true
	tx.batch.Reset()
	return nil
}

func (tx *transaction) RollbackUnlessClosed() error {
	if tx.isClosed {
		return nil
	}
	return tx.Rollback()
}

func (tx *transaction) Put(key *database.Key, value []byte) error {
	if tx.isClosed {
		return errors.New("cannot put into a closed transaction")
	}
	tx.batch.Put(key.Bytes(), value)
	return nil
}

func (tx *transaction) Get(key *database.Key) ([]byte, error) {
	if tx.isClosed {
		return nil, errors.New("cannot get from a closed transaction")
	}
	return tx.db.Get(key)
}

func (tx *transaction) Has(key *database.Key) (bool, error) {
	if tx.isClosed {
		return false, errors.New("cannot has from a closed transaction")
	}
	return tx.db.Has(key)
}

func (tx *transaction) Delete(key *database.Key) error {
	if tx.isClosed {
		return errors.New("cannot delete from a closed transaction")
	}
	tx.batch.Delete(key.Bytes())
	return nil
}

func (tx *transaction) Cursor(bucket *database.Bucket) (database.Cursor, error) {
	if tx.isClosed {
		return nil, errors.New("cannot open a cursor from a closed transaction")
	}
	return tx.db.Cursor(bucket)
}
