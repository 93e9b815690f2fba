package database

import (
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/infrastructure/db/database"
)

// MakeBucket creates a new top-level bucket
func MakeBucket(bucketBytes []byte) model.DBBucket {
	return newDBBucket(database.MakeBucket(bucketBytes))
}

func dbBucketToDatabaseBucket(bucket model.DBBucket) *database.Bucket {
	if bucket, ok := bucket.(*dbBucket); ok {
		return bucket.bucket
	}
	path := bucket.Path()
	if len(path) == 0 {
		return database.MakeBucket(nil)
	}
	return database.MakeBucket(path[:len(path)-1])
}

type dbBucket struct {
	bucket *database.Bucket
}

func (d dbBucket) Bucket(bucketBytes []byte) model.DBBucket {
	return newDBBucket(d.bucket.Bucket(bucketBytes))
}

func (d dbBucket) Key(suffix []byte) model.DBKey {
	return newDBKey(d.bucket.Key(suffix))
}

func (d dbBucket) Path() []byte {
	return d.bucket.Path()
}

func newDBBucket(bucket *database.Bucket) model.DBBucket {
	return &dbBucket{bucket: bucket}
}
