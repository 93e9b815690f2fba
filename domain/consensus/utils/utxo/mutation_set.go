package utxo

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// MutationSet accumulates the effect of a sequence of transactions on top
// of a committed ledger. An output that is created and consumed within the
// same set cancels out, but is still remembered as spent.
type MutationSet struct {
	created       map[externalapi.DomainOutpoint]externalapi.UTXOEntry
	consumed      map[externalapi.DomainOutpoint]struct{}
	spentInternal map[externalapi.DomainOutpoint]struct{}
}

// NewMutationSet returns an empty MutationSet
func NewMutationSet() *MutationSet {
	return &MutationSet{
		created:       make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry),
		consumed:      make(map[externalapi.DomainOutpoint]struct{}),
		spentInternal: make(map[externalapi.DomainOutpoint]struct{}),
	}
}

// CreatedEntry returns the entry for an output created in this set and
// not yet consumed
func (ms *MutationSet) CreatedEntry(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool) {
	entry, ok := ms.created[*outpoint]
	return entry, ok
}

// IsConsumed returns whether this set already consumed the outpoint
func (ms *MutationSet) IsConsumed(outpoint *externalapi.DomainOutpoint) bool {
	if _, ok := ms.consumed[*outpoint]; ok {
		return true
	}
	_, ok := ms.spentInternal[*outpoint]
	return ok
}

// Consume marks outpoint as consumed
func (ms *MutationSet) Consume(outpoint *externalapi.DomainOutpoint) {
	if _, ok := ms.created[*outpoint]; ok {
		delete(ms.created, *outpoint)
		ms.spentInternal[*outpoint] = struct{}{}
		return
	}
	ms.consumed[*outpoint] = struct{}{}
}

// Create records a new output
func (ms *MutationSet) Create(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) {
	ms.created[*outpoint] = entry
}

// ToMutations returns the aggregate mutations, sorted by outpoint
func (ms *MutationSet) ToMutations() *externalapi.UTXOMutations {
	consumed := make([]*externalapi.DomainOutpoint, 0, len(ms.consumed))
	for outpoint := range ms.consumed {
		consumed = append(consumed, outpoint.Clone())
	}
	SortOutpoints(consumed)

	created := make([]*externalapi.OutpointAndUTXOEntryPair, 0, len(ms.created))
	for outpoint, entry := range ms.created {
		created = append(created, &externalapi.OutpointAndUTXOEntryPair{
			Outpoint:  outpoint.Clone(),
			UTXOEntry: entry,
		})
	}
	SortPairs(created)

	return &externalapi.UTXOMutations{
		Consumed: consumed,
		Created:  created,
	}
}
