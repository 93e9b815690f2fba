package externalapi

// UTXOEntry houses details about an individual transaction output in a utxo
// set such as its amount, its owner and the milestone index at which it was
// booked.
type UTXOEntry interface {
	Amount() uint64
	Address() *DomainAddress
	BookedAtIndex() MilestoneIndex
	Equal(other UTXOEntry) bool
}

// OutpointAndUTXOEntryPair is an outpoint along with its
// respective UTXO entry
type OutpointAndUTXOEntryPair struct {
	Outpoint  *DomainOutpoint
	UTXOEntry UTXOEntry
}

// SpentOutput is the record kept for an output after it was consumed
type SpentOutput struct {
	Outpoint     *DomainOutpoint
	UTXOEntry    UTXOEntry
	SpentAtIndex MilestoneIndex
}

// UTXOMutations is the aggregate effect of a milestone on the ledger: the
// outpoints it consumes and the outputs it creates.
type UTXOMutations struct {
	Consumed []*DomainOutpoint
	Created  []*OutpointAndUTXOEntryPair
}

// TotalCreated returns the sum of the amounts of the created outputs
func (mutations *UTXOMutations) TotalCreated() uint64 {
	total := uint64(0)
	for _, created := range mutations.Created {
		total += created.UTXOEntry.Amount()
	}
	return total
}

// IsEmpty returns whether the mutations neither consume nor create anything
func (mutations *UTXOMutations) IsEmpty() bool {
	return len(mutations.Consumed) == 0 && len(mutations.Created) == 0
}
