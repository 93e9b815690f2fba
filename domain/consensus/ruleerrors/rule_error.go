package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrDuplicateBlock indicates a block with the same hash already
	// exists, either in the tangle or as a solid entry point.
	ErrDuplicateBlock = newRuleError("ErrDuplicateBlock")

	// ErrNoParents indicates that the block is missing parents
	ErrNoParents = newRuleError("ErrNoParents")

	// ErrTooManyParents indicates that a block points to more then `MaxBlockParents` parents
	ErrTooManyParents = newRuleError("ErrTooManyParents")

	// ErrParentsNotSorted indicates that the parents of a block are not
	// strictly ascending, which also covers duplicate parents
	ErrParentsNotSorted = newRuleError("ErrParentsNotSorted")

	// ErrDuplicateMilestoneIndex indicates that another block already
	// carries a milestone with the same index
	ErrDuplicateMilestoneIndex = newRuleError("ErrDuplicateMilestoneIndex")

	// ErrMilestoneTooOld indicates a milestone at or below the ledger index
	ErrMilestoneTooOld = newRuleError("ErrMilestoneTooOld")

	// ErrNotAMilestone indicates that confirmation was requested for a
	// block that doesn't carry a milestone payload
	ErrNotAMilestone = newRuleError("ErrNotAMilestone")

	// ErrMilestoneNotSolid indicates that a block in the past cone of a
	// milestone is missing
	ErrMilestoneNotSolid = newRuleError("ErrMilestoneNotSolid")

	// ErrNoTxInputs indicates a transaction does not have any inputs.
	ErrNoTxInputs = newRuleError("ErrNoTxInputs")

	// ErrNoTxOutputs indicates a transaction does not have any outputs.
	ErrNoTxOutputs = newRuleError("ErrNoTxOutputs")

	// ErrDuplicateTxInputs indicates a transaction references the same
	// input more than once.
	ErrDuplicateTxInputs = newRuleError("ErrDuplicateTxInputs")

	// ErrBadTxOutValue indicates an output value for a transaction is
	// invalid in some way such as being zero or exceeding the total supply.
	ErrBadTxOutValue = newRuleError("ErrBadTxOutValue")

	// ErrMissingSignature indicates an input without an unlocking signature
	ErrMissingSignature = newRuleError("ErrMissingSignature")

	// ErrAmountMismatch indicates that the inputs of a transaction do not
	// sum to its outputs
	ErrAmountMismatch = newRuleError("ErrAmountMismatch")

	// ErrInvalidSignature indicates that a signature doesn't verify, or
	// that its key doesn't own the spent output
	ErrInvalidSignature = newRuleError("ErrInvalidSignature")

	// ErrInvalidSnapshot indicates a snapshot that is malformed or doesn't
	// match the node's parameters
	ErrInvalidSnapshot = newRuleError("ErrInvalidSnapshot")

	// ErrDatabaseAlreadyInitialized indicates an attempt to import a full
	// snapshot into a node that already has a ledger
	ErrDatabaseAlreadyInitialized = newRuleError("ErrDatabaseAlreadyInitialized")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// IsRuleError returns whether err is, or wraps, a RuleError
func IsRuleError(err error) bool {
	return errors.As(err, &RuleError{})
}

// ErrMissingTxOut indicates that transaction outputs referenced by inputs
// do not exist in the ledger.
type ErrMissingTxOut struct {
	MissingOutpoints []*externalapi.DomainOutpoint
}

func (e ErrMissingTxOut) Error() string {
	return fmt.Sprintf("missing the following outpoints: %v", e.MissingOutpoints)
}

// NewErrMissingTxOut Creates a new ErrMissingTxOut error wrapped in a RuleError
func NewErrMissingTxOut(missingOutpoints []*externalapi.DomainOutpoint) error {
	return errors.WithStack(RuleError{
		message: "ErrMissingTxOut",
		inner:   ErrMissingTxOut{missingOutpoints},
	})
}

// ErrSpentTxOut indicates that transaction outputs referenced by inputs
// were already consumed, by a previous milestone or earlier in the same
// white-flag walk.
type ErrSpentTxOut struct {
	SpentOutpoints []*externalapi.DomainOutpoint
}

func (e ErrSpentTxOut) Error() string {
	return fmt.Sprintf("the following outpoints are already spent: %v", e.SpentOutpoints)
}

// NewErrSpentTxOut Creates a new ErrSpentTxOut error wrapped in a RuleError
func NewErrSpentTxOut(spentOutpoints []*externalapi.DomainOutpoint) error {
	return errors.WithStack(RuleError{
		message: "ErrSpentTxOut",
		inner:   ErrSpentTxOut{spentOutpoints},
	})
}
