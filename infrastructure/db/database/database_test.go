package database_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/tanglenet/tangled/infrastructure/db/database"
)

func TestDatabasePut(t *testing.T) {
	testForAllDatabaseTypes(t, "TestDatabasePut", testDatabasePut)
}

func testDatabasePut(t *testing.T, db database.Database, testName string) {
	// Put value1 into the database
	key := database.MakeBucket(nil).Key([]byte("key"))
	value1 := []byte("value1")
	err := db.Put(key, value1)
	if err != nil {
		t.Fatalf("%s: Put unexpectedly "+
			"failed: %s", testName, err)
	}

	// Make sure that the returned value is value1
	returnedValue, err := db.Get(key)
	if err != nil {
		t.Fatalf("%s: Get "+
			"unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(returnedValue, value1) {
		t.Fatalf("%s: Get "+
			"returned wrong value. Want: %s, got: %s",
			testName, string(value1), string(returnedValue))
	}

	// Put value2 into the database with the same key
	value2 := []byte("value2")
	err = db.Put(key, value2)
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}

	// Make sure that the returned value is value2
	returnedValue, err = db.Get(key)
	if err != nil {
		t.Fatalf("%s: Get "+
			"unexpectedly failed: %s", testName, err)
	}
	if !bytes.Equal(returnedValue, value2) {
		t.Fatalf("%s: Get "+
			"returned wrong value. Want: %s, got: %s",
			testName, string(value2), string(returnedValue))
	}
}

func TestDatabaseGetNotFound(t *testing.T) {
	testForAllDatabaseTypes(t, "TestDatabaseGetNotFound", testDatabaseGetNotFound)
}

func testDatabaseGetNotFound(t *testing.T, db database.Database, testName string) {
	nonExistingKey := database.MakeBucket(nil).Key([]byte("doesn't exist"))
	_, err := db.Get(nonExistingKey)
	if err == nil {
		t.Fatalf("%s: Get "+
			"unexpectedly succeeded", testName)
	}
	if !database.IsNotFoundError(err) {
		t.Fatalf("%s: Get "+
			"returned wrong error: %s", testName, err)
	}

	exists, err := db.Has(nonExistingKey)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has "+
			"unexpectedly returned that the value exists", testName)
	}

	// Deleting a non-existent key is not an error
	err = db.Delete(nonExistingKey)
	if err != nil {
		t.Fatalf("%s: Delete "+
			"unexpectedly failed: %s", testName, err)
	}
}

func TestDatabaseDelete(t *testing.T) {
	testForAllDatabaseTypes(t, "TestDatabaseDelete", testDatabaseDelete)
}

func testDatabaseDelete(t *testing.T, db database.Database, testName string) {
	entries := populateDatabaseForTest(t, db, testName)

	err := db.Delete(entries[3].key)
	if err != nil {
		t.Fatalf("%s: Delete "+
			"unexpectedly failed: %s", testName, err)
	}
	exists, err := db.Has(entries[3].key)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: Has "+
			"unexpectedly returned that the deleted value exists", testName)
	}
	exists, err = db.Has(entries[4].key)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if !exists {
		t.Fatalf("%s: Has "+
			"unexpectedly returned that an unrelated value is missing", testName)
	}
}

func TestTransactionCommit(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionCommit", testTransactionCommit)
}

func testTransactionCommit(t *testing.T, db database.Database, testName string) {
	entries := populateDatabaseForTest(t, db, testName)

	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin "+
			"unexpectedly failed: %s", testName, err)
	}
	defer func() {
		err := dbTx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("%s: RollbackUnlessClosed "+
				"unexpectedly failed: %s", testName, err)
		}
	}()

	newKey := database.MakeBucket(nil).Key([]byte("new key"))
	err = dbTx.Put(newKey, []byte("new value"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Delete(entries[0].key)
	if err != nil {
		t.Fatalf("%s: Delete "+
			"unexpectedly failed: %s", testName, err)
	}

	// Nothing is visible before commit
	exists, err := db.Has(newKey)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: uncommitted put is visible outside the transaction", testName)
	}

	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("%s: Commit "+
			"unexpectedly failed: %s", testName, err)
	}

	value, err := db.Get(newKey)
	if err != nil {
		t.Fatalf("%s: Get "+
			"unexpectedly failed: %s", testName, err)
	}
	if string(value) != "new value" {
		t.Fatalf("%s: Get returned wrong value %s", testName, value)
	}
	exists, err = db.Has(entries[0].key)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: committed delete was not applied", testName)
	}

	// Operations on a closed transaction fail
	err = dbTx.Put(newKey, []byte("other"))
	if err == nil {
		t.Fatalf("%s: Put on a committed transaction unexpectedly succeeded", testName)
	}
	err = dbTx.Commit()
	if err == nil {
		t.Fatalf("%s: a second Commit unexpectedly succeeded", testName)
	}
}

func TestTransactionRollback(t *testing.T) {
	testForAllDatabaseTypes(t, "TestTransactionRollback", testTransactionRollback)
}

func testTransactionRollback(t *testing.T, db database.Database, testName string) {
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("%s: Begin "+
			"unexpectedly failed: %s", testName, err)
	}

	key := database.MakeBucket(nil).Key([]byte("key"))
	err = dbTx.Put(key, []byte("value"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.Rollback()
	if err != nil {
		t.Fatalf("%s: Rollback "+
			"unexpectedly failed: %s", testName, err)
	}
	err = dbTx.RollbackUnlessClosed()
	if err != nil {
		t.Fatalf("%s: RollbackUnlessClosed "+
			"unexpectedly failed: %s", testName, err)
	}

	exists, err := db.Has(key)
	if err != nil {
		t.Fatalf("%s: Has "+
			"unexpectedly failed: %s", testName, err)
	}
	if exists {
		t.Fatalf("%s: rolled back put is visible", testName)
	}
}

func TestCursorOrderedIteration(t *testing.T) {
	testForAllDatabaseTypes(t, "TestCursorOrderedIteration", testCursorOrderedIteration)
}

func testCursorOrderedIteration(t *testing.T, db database.Database, testName string) {
	bucket := database.MakeBucket([]byte("bucket"))
	otherBucket := database.MakeBucket([]byte("other"))

	// Insert in reverse order so that ordering comes from the backend
	for i := 9; i >= 0; i-- {
		err := db.Put(bucket.Key([]byte{byte(i)}), []byte(fmt.Sprintf("value%d", i)))
		if err != nil {
			t.Fatalf("%s: Put "+
				"unexpectedly failed: %s", testName, err)
		}
	}
	err := db.Put(otherBucket.Key([]byte{0}), []byte("not in bucket"))
	if err != nil {
		t.Fatalf("%s: Put "+
			"unexpectedly failed: %s", testName, err)
	}

	cursor, err := db.Cursor(bucket)
	if err != nil {
		t.Fatalf("%s: Cursor "+
			"unexpectedly failed: %s", testName, err)
	}
	defer cursor.Close()

	count := 0
	for ok := cursor.First(); ok; ok = cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			t.Fatalf("%s: Key "+
				"unexpectedly failed: %s", testName, err)
		}
		if !bytes.Equal(key.Suffix(), []byte{byte(count)}) {
			t.Fatalf("%s: got key %x at position %d", testName, key.Suffix(), count)
		}
		value, err := cursor.Value()
		if err != nil {
			t.Fatalf("%s: Value "+
				"unexpectedly failed: %s", testName, err)
		}
		if string(value) != fmt.Sprintf("value%d", count) {
			t.Fatalf("%s: got value %s at position %d", testName, value, count)
		}
		count++
	}
	if count != 10 {
		t.Fatalf("%s: cursor yielded %d entries, expected 10", testName, count)
	}
}
