package externalapi

// MilestoneIndex is the index of a milestone. The ledger index is the index
// of the last applied milestone.
type MilestoneIndex uint32

// DomainMilestone is the payload of a milestone block
type DomainMilestone struct {
	Index     MilestoneIndex
	Timestamp int64

	// InclusionMerkleRoot commits to every block the milestone newly
	// references, in white-flag order. Nil if the issuer did not declare it.
	InclusionMerkleRoot *DomainHash

	// AppliedMerkleRoot commits to the included transaction blocks, in
	// white-flag order. Nil if the issuer did not declare it.
	AppliedMerkleRoot *DomainHash
}

// PayloadType implements DomainPayload
func (milestone *DomainMilestone) PayloadType() PayloadType {
	return PayloadTypeMilestone
}

// Clone returns a clone of DomainMilestone
func (milestone *DomainMilestone) Clone() DomainPayload {
	return &DomainMilestone{
		Index:               milestone.Index,
		Timestamp:           milestone.Timestamp,
		InclusionMerkleRoot: milestone.InclusionMerkleRoot,
		AppliedMerkleRoot:   milestone.AppliedMerkleRoot,
	}
}

// Equal returns whether milestone equals to other
func (milestone *DomainMilestone) Equal(other DomainPayload) bool {
	otherMilestone, ok := other.(*DomainMilestone)
	if !ok {
		return false
	}
	if milestone == nil || otherMilestone == nil {
		return milestone == otherMilestone
	}
	return milestone.Index == otherMilestone.Index &&
		milestone.Timestamp == otherMilestone.Timestamp &&
		milestone.InclusionMerkleRoot.Equal(otherMilestone.InclusionMerkleRoot) &&
		milestone.AppliedMerkleRoot.Equal(otherMilestone.AppliedMerkleRoot)
}
