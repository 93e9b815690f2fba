package app

import (
	"os"
	"testing"
)

func TestDatabaseVersion(t *testing.T) {
	dbPath := t.TempDir()

	exists, err := checkDatabaseVersion(dbPath)
	if err != nil {
		t.Fatalf("TestDatabaseVersion: checkDatabaseVersion unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestDatabaseVersion: an empty directory has a version file")
	}

	err = createDatabaseVersionFile(dbPath)
	if err != nil {
		t.Fatalf("TestDatabaseVersion: createDatabaseVersionFile unexpectedly failed: %s", err)
	}
	exists, err = checkDatabaseVersion(dbPath)
	if err != nil {
		t.Fatalf("TestDatabaseVersion: checkDatabaseVersion unexpectedly failed: %s", err)
	}
	if !exists {
		t.Fatalf("TestDatabaseVersion: the version file was not found")
	}

	err = os.WriteFile(versionFilePath(dbPath), []byte("7"), 0600)
	if err != nil {
		t.Fatalf("TestDatabaseVersion: WriteFile unexpectedly failed: %s", err)
	}
	_, err = checkDatabaseVersion(dbPath)
	if err == nil {
		t.Fatalf("TestDatabaseVersion: an unknown database version was accepted")
	}
}
