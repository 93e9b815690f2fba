package utxo

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

type utxoEntry struct {
	amount        uint64
	address       externalapi.DomainAddress
	bookedAtIndex externalapi.MilestoneIndex
}

// NewUTXOEntry creates a new utxoEntry representing the given txOut
func NewUTXOEntry(amount uint64, address *externalapi.DomainAddress,
	bookedAtIndex externalapi.MilestoneIndex) externalapi.UTXOEntry {

	return &utxoEntry{
		amount:        amount,
		address:       *address,
		bookedAtIndex: bookedAtIndex,
	}
}

func (u *utxoEntry) Amount() uint64 {
	return u.amount
}

func (u *utxoEntry) Address() *externalapi.DomainAddress {
	clone := u.address
	return &clone
}

func (u *utxoEntry) BookedAtIndex() externalapi.MilestoneIndex {
	return u.bookedAtIndex
}

// Equal returns whether entry equals to other
func (u *utxoEntry) Equal(other externalapi.UTXOEntry) bool {
	if u == nil || other == nil {
		return u == nil && other == nil
	}
	otherEntry, ok := other.(*utxoEntry)
	if ok && otherEntry == nil {
		return false
	}
	return u.amount == other.Amount() &&
		u.address == *other.Address() &&
		u.bookedAtIndex == other.BookedAtIndex()
}
