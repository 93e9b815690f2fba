package utxo

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// SortPairs sorts the given pairs by the byte order of their outpoints,
// which is the order the ledger stores them in
func SortPairs(pairs []*externalapi.OutpointAndUTXOEntryPair) {
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].Outpoint.Bytes(), pairs[j].Outpoint.Bytes()) < 0
	})
}

// SortOutpoints sorts the given outpoints by byte order
func SortOutpoints(outpoints []*externalapi.DomainOutpoint) {
	sort.Slice(outpoints, func(i, j int) bool {
		return bytes.Compare(outpoints[i].Bytes(), outpoints[j].Bytes()) < 0
	})
}

type pairsIterator struct {
	index    int
	pairs    []*externalapi.OutpointAndUTXOEntryPair
	isClosed bool
}

// NewPairsIterator returns an iterator over the given pairs, in outpoint
// order
func NewPairsIterator(pairs []*externalapi.OutpointAndUTXOEntryPair) model.ReadOnlyUTXOSetIterator {
	sortedPairs := make([]*externalapi.OutpointAndUTXOEntryPair, len(pairs))
	copy(sortedPairs, pairs)
	SortPairs(sortedPairs)
	return &pairsIterator{index: -1, pairs: sortedPairs}
}

func (it *pairsIterator) First() bool {
	if it.isClosed {
		panic("Tried using a closed pairsIterator")
	}
	it.index = 0
	return len(it.pairs) > 0
}

func (it *pairsIterator) Next() bool {
	if it.isClosed {
		panic("Tried using a closed pairsIterator")
	}
	it.index++
	return it.index < len(it.pairs)
}

func (it *pairsIterator) Get() (*externalapi.DomainOutpoint, externalapi.UTXOEntry, error) {
	if it.isClosed {
		return nil, nil, errors.New("Tried using a closed pairsIterator")
	}
	if it.index < 0 || it.index >= len(it.pairs) {
		return nil, nil, errors.Errorf("pairsIterator index %d out of range", it.index)
	}
	pair := it.pairs[it.index]
	return pair.Outpoint, pair.UTXOEntry, nil
}

func (it *pairsIterator) Close() error {
	if it.isClosed {
		return errors.New("Tried using a closed pairsIterator")
	}
	it.isClosed = true
	it.pairs = nil
	return nil
}
