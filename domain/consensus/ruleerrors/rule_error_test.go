package ruleerrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func TestNewErrMissingTxOut(t *testing.T) {
	transactionID := externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{255, 255, 255})
	outer := NewErrMissingTxOut([]*externalapi.DomainOutpoint{externalapi.NewDomainOutpoint(transactionID, 5)})
	expectedOuterErr := "ErrMissingTxOut: missing the following outpoints: " +
		"[(ffffff0000000000000000000000000000000000000000000000000000000000: 5)]"

	inner := &ErrMissingTxOut{}
	if !errors.As(outer, inner) {
		t.Fatal("TestNewErrMissingTxOut: Outer should contain ErrMissingTxOut in it")
	}
	if len(inner.MissingOutpoints) != 1 {
		t.Fatalf("TestNewErrMissingTxOut: Expected len(inner.MissingOutpoints) 1, found: %d", len(inner.MissingOutpoints))
	}
	if inner.MissingOutpoints[0].Index != 5 {
		t.Fatalf("TestNewErrMissingTxOut: Expected 5. found: %d", inner.MissingOutpoints[0].Index)
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestNewErrMissingTxOut: Outer should contain RuleError in it")
	}
	if rule.message != "ErrMissingTxOut" {
		t.Fatalf("TestNewErrMissingTxOut: Expected message = 'ErrMissingTxOut', found: '%s'", rule.message)
	}
	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestNewErrMissingTxOut: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}

func TestRuleAndFatalErrorsAreDistinct(t *testing.T) {
	ruleErr := errors.Wrapf(ErrDuplicateBlock, "block %s", externalapi.NewZeroHash())
	if !IsRuleError(ruleErr) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: wrapped ErrDuplicateBlock is not a rule error")
	}
	if IsFatal(ruleErr) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: wrapped ErrDuplicateBlock is fatal")
	}
	if !errors.Is(ruleErr, ErrDuplicateBlock) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: errors.Is lost ErrDuplicateBlock")
	}

	fatalErr := errors.Wrapf(ErrOutOfSequence, "got index %d, expected %d", 7, 6)
	if !IsFatal(fatalErr) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: wrapped ErrOutOfSequence is not fatal")
	}
	if IsRuleError(fatalErr) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: wrapped ErrOutOfSequence is a rule error")
	}
	if !errors.Is(fatalErr, ErrOutOfSequence) || errors.Is(fatalErr, ErrMerkleRootMismatch) {
		t.Fatalf("TestRuleAndFatalErrorsAreDistinct: errors.Is does not tell fatal errors apart")
	}
}

func TestNewErrSpentTxOut(t *testing.T) {
	transactionID := externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{1})
	outer := NewErrSpentTxOut([]*externalapi.DomainOutpoint{externalapi.NewDomainOutpoint(transactionID, 2)})

	inner := &ErrSpentTxOut{}
	if !errors.As(outer, inner) {
		t.Fatal("TestNewErrSpentTxOut: Outer should contain ErrSpentTxOut in it")
	}
	if len(inner.SpentOutpoints) != 1 || inner.SpentOutpoints[0].Index != 2 {
		t.Fatalf("TestNewErrSpentTxOut: unexpected spent outpoints %v", inner.SpentOutpoints)
	}
	if !IsRuleError(outer) || IsFatal(outer) {
		t.Fatal("TestNewErrSpentTxOut: ErrSpentTxOut should be a non-fatal rule error")
	}
	if errors.As(outer, &ErrMissingTxOut{}) {
		t.Fatal("TestNewErrSpentTxOut: ErrSpentTxOut is mistaken for ErrMissingTxOut")
	}
}
