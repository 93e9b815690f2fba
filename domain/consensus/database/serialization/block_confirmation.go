package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	confirmationReferencedByIndexField protowire.Number = 1
	confirmationWhiteFlagIndexField    protowire.Number = 2
	confirmationClassificationField    protowire.Number = 3
	confirmationConflictReasonField    protowire.Number = 4
)

// BlockConfirmationToDBBlockConfirmation serializes a BlockConfirmation for the database
func BlockConfirmationToDBBlockConfirmation(confirmation *externalapi.BlockConfirmation) []byte {
	b := wire.AppendVarintField(nil, confirmationReferencedByIndexField, uint64(confirmation.ReferencedByIndex))
	b = wire.AppendVarintField(b, confirmationWhiteFlagIndexField, uint64(confirmation.WhiteFlagIndex))
	b = wire.AppendVarintField(b, confirmationClassificationField, uint64(confirmation.Classification))
	return wire.AppendVarintField(b, confirmationConflictReasonField, uint64(confirmation.ConflictReason))
}

// DBBlockConfirmationToBlockConfirmation deserializes a BlockConfirmation
func DBBlockConfirmationToBlockConfirmation(serialized []byte) (*externalapi.BlockConfirmation, error) {
	confirmation := &externalapi.BlockConfirmation{}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		switch number {
		case confirmationReferencedByIndexField:
			value, n, err := consumeMilestoneIndex(fieldType, b)
			confirmation.ReferencedByIndex = value
			return n, err
		case confirmationWhiteFlagIndexField:
			value, n, err := wire.ConsumeVarint(fieldType, b)
			if err != nil {
				return 0, err
			}
			if value > math.MaxUint32 {
				return 0, errors.Errorf("white-flag index %d is out of range", value)
			}
			confirmation.WhiteFlagIndex = uint32(value)
			return n, nil
		case confirmationClassificationField:
			value, n, err := wire.ConsumeVarint(fieldType, b)
			if err != nil {
				return 0, err
			}
			if value > uint64(externalapi.ClassificationNotApplicable) {
				return 0, errors.Errorf("unknown block classification %d", value)
			}
			confirmation.Classification = externalapi.BlockClassification(value)
			return n, nil
		case confirmationConflictReasonField:
			value, n, err := wire.ConsumeVarint(fieldType, b)
			if err != nil {
				return 0, err
			}
			if value > uint64(externalapi.ConflictSemanticallyInvalid) {
				return 0, errors.Errorf("unknown conflict reason %d", value)
			}
			confirmation.ConflictReason = externalapi.ConflictReason(value)
			return n, nil
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}
