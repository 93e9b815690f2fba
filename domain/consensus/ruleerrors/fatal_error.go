package ruleerrors

import "github.com/pkg/errors"

// These errors indicate that the node's history diverged from the network's
// or that the ledger is corrupted. No local recovery exists for them: the
// node must stop writing consensus state.
var (
	// ErrOutOfSequence indicates an attempt to apply a milestone whose
	// index isn't the ledger index plus one
	ErrOutOfSequence = newFatalError("ErrOutOfSequence")

	// ErrMerkleRootMismatch indicates that a merkle root declared by a
	// milestone differs from the locally computed one
	ErrMerkleRootMismatch = newFatalError("ErrMerkleRootMismatch")

	// ErrSupplyInvariantViolation indicates that the unspent outputs no
	// longer sum up to the total supply
	ErrSupplyInvariantViolation = newFatalError("ErrSupplyInvariantViolation")

	// ErrLedgerInconsistency indicates mutations that consume an output
	// that isn't unspent
	ErrLedgerInconsistency = newFatalError("ErrLedgerInconsistency")
)

// FatalError identifies a consensus failure that must halt confirmation.
// Unlike a RuleError it never describes bad input, only a divergence or an
// internal corruption.
type FatalError struct {
	message string
}

// Error satisfies the error interface
func (e FatalError) Error() string {
	return e.message
}

func newFatalError(message string) FatalError {
	return FatalError{message: message}
}

// IsFatal returns whether err is, or wraps, a FatalError
func IsFatal(err error) bool {
	return errors.As(err, &FatalError{})
}
