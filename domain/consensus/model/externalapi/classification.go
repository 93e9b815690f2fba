package externalapi

import "fmt"

// BlockClassification is the white-flag outcome for a block
type BlockClassification uint8

// The white-flag outcomes. ClassificationNone marks a block that was not
// yet referenced by any milestone.
const (
	ClassificationNone BlockClassification = iota
	ClassificationIncluded
	ClassificationConflictIgnored
	ClassificationNotApplicable
)

var classificationStrings = map[BlockClassification]string{
	ClassificationNone:            "None",
	ClassificationIncluded:        "Included",
	ClassificationConflictIgnored: "ConflictIgnored",
	ClassificationNotApplicable:   "NotApplicable",
}

func (c BlockClassification) String() string {
	s, ok := classificationStrings[c]
	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
	return s
}

// ConflictReason explains why a transaction was ignored
type ConflictReason uint8

// The conflict reasons
const (
	ConflictNone ConflictReason = iota
	ConflictInputNotFound
	ConflictInputAlreadySpent
	ConflictAmountMismatch
	ConflictInvalidSignature
	ConflictSemanticallyInvalid
)

var conflictReasonStrings = map[ConflictReason]string{
	ConflictNone:                "None",
	ConflictInputNotFound:       "InputNotFound",
	ConflictInputAlreadySpent:   "InputAlreadySpent",
	ConflictAmountMismatch:      "AmountMismatch",
	ConflictInvalidSignature:    "InvalidSignature",
	ConflictSemanticallyInvalid: "SemanticallyInvalid",
}

func (r ConflictReason) String() string {
	s, ok := conflictReasonStrings[r]
	if !ok {
		return fmt.Sprintf("Unknown(%d)", uint8(r))
	}
	return s
}

// AllConflictReasons returns every reason a transaction can be ignored for
func AllConflictReasons() []ConflictReason {
	return []ConflictReason{
		ConflictInputNotFound,
		ConflictInputAlreadySpent,
		ConflictAmountMismatch,
		ConflictInvalidSignature,
		ConflictSemanticallyInvalid,
	}
}

// BlockConfirmation is the confirmation metadata of a block: the milestone
// that referenced it, its position in that milestone's white-flag order and
// its classification.
type BlockConfirmation struct {
	ReferencedByIndex MilestoneIndex
	WhiteFlagIndex    uint32
	Classification    BlockClassification
	ConflictReason    ConflictReason
}

// Clone returns a clone of BlockConfirmation
func (bc *BlockConfirmation) Clone() *BlockConfirmation {
	clone := *bc
	return &clone
}

// Equal returns whether bc equals to other
func (bc *BlockConfirmation) Equal(other *BlockConfirmation) bool {
	if bc == nil || other == nil {
		return bc == other
	}
	return *bc == *other
}

// BlockClassificationEntry is one element of the white-flag order
type BlockClassificationEntry struct {
	BlockHash      *DomainHash
	Classification BlockClassification
	ConflictReason ConflictReason
}

// ConfirmationResult is the outcome of running white-flag on a milestone
type ConfirmationResult struct {
	MilestoneIndex      MilestoneIndex
	MilestoneHash       *DomainHash
	Order               []*BlockClassificationEntry
	Mutations           *UTXOMutations
	InclusionMerkleRoot *DomainHash
	AppliedMerkleRoot   *DomainHash
}

// IncludedBlockHashes returns the hashes of the Included blocks, in order
func (result *ConfirmationResult) IncludedBlockHashes() []*DomainHash {
	included := make([]*DomainHash, 0, len(result.Order))
	for _, entry := range result.Order {
		if entry.Classification == ClassificationIncluded {
			included = append(included, entry.BlockHash)
		}
	}
	return included
}

// ConflictCounts counts the ignored blocks per reason
func (result *ConfirmationResult) ConflictCounts() map[ConflictReason]int {
	counts := make(map[ConflictReason]int)
	for _, entry := range result.Order {
		if entry.Classification == ClassificationConflictIgnored {
			counts[entry.ConflictReason]++
		}
	}
	return counts
}
