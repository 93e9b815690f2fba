package serialization

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	wire "github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	spentOutputEntryField        protowire.Number = 1
	spentOutputSpentAtIndexField protowire.Number = 2
)

// SpentOutputToDBSpentOutput serializes a SpentOutput for the database.
// The outpoint is not serialized since it's the record's key.
func SpentOutputToDBSpentOutput(spentOutput *externalapi.SpentOutput) []byte {
	b := wire.AppendBytesField(nil, spentOutputEntryField, wire.SerializeUTXOEntry(spentOutput.UTXOEntry))
	return wire.AppendVarintField(b, spentOutputSpentAtIndexField, uint64(spentOutput.SpentAtIndex))
}

// DBSpentOutputToSpentOutput deserializes the SpentOutput of outpoint
func DBSpentOutputToSpentOutput(outpoint *externalapi.DomainOutpoint, serialized []byte) (*externalapi.SpentOutput, error) {
	spentOutput := &externalapi.SpentOutput{Outpoint: outpoint.Clone()}
	err := wire.ForEachField(serialized, func(number protowire.Number, fieldType protowire.Type, b []byte) (int, error) {
		switch number {
		case spentOutputEntryField:
			value, n, err := wire.ConsumeBytes(fieldType, b)
			if err != nil {
				return 0, err
			}
			spentOutput.UTXOEntry, err = wire.DeserializeUTXOEntry(value)
			return n, err
		case spentOutputSpentAtIndexField:
			value, n, err := consumeMilestoneIndex(fieldType, b)
			spentOutput.SpentAtIndex = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if spentOutput.UTXOEntry == nil {
		return nil, errors.New("spent output is missing its entry")
	}
	return spentOutput, nil
}
