package lrucache

import (
	"sync"
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func TestLRUCacheCapacity(t *testing.T) {
	cache := New(2, true)
	for i := byte(0); i < 10; i++ {
		cache.Add(externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{i}), i)
		expectedLen := int(i) + 1
		if expectedLen > 2 {
			expectedLen = 2
		}
		if cache.Len() != expectedLen {
			t.Fatalf("TestLRUCacheCapacity: expected %d entries but got %d", expectedLen, cache.Len())
		}
	}
}

func TestLRUCacheRemove(t *testing.T) {
	cache := New(2, true)
	key := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xff})
	cache.Add(key, "value")
	value, ok := cache.Get(key)
	if !ok || value.(string) != "value" {
		t.Fatalf("TestLRUCacheRemove: the added entry is missing")
	}
	if !cache.Has(key) {
		t.Fatalf("TestLRUCacheRemove: Has unexpectedly returned false")
	}

	cache.Remove(key)
	if cache.Has(key) {
		t.Fatalf("TestLRUCacheRemove: entry is still cached after Remove")
	}
	if _, ok := cache.Get(key); ok {
		t.Fatalf("TestLRUCacheRemove: Get returned a removed entry")
	}
	if cache.Len() != 0 {
		t.Fatalf("TestLRUCacheRemove: expected an empty cache but got %d entries", cache.Len())
	}

	// Removing a missing key does nothing
	cache.Remove(key)
}

func TestLRUCacheConcurrentAccess(t *testing.T) {
	cache := New(16, false)
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker byte) {
			defer wg.Done()
			for j := byte(0); j < 100; j++ {
				key := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{worker, j})
				cache.Add(key, j)
				cache.Get(key)
				cache.Remove(key)
			}
		}(byte(i))
	}
	wg.Wait()
}
