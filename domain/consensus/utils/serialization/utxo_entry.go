package serialization

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/utxo"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	utxoEntryAmountField        protowire.Number = 1
	utxoEntryAddressField       protowire.Number = 2
	utxoEntryBookedAtIndexField protowire.Number = 3
)

// SerializeUTXOEntry returns the encoding of entry
func SerializeUTXOEntry(entry externalapi.UTXOEntry) []byte {
	return AppendUTXOEntry(nil, entry)
}

// AppendUTXOEntry appends the encoding of entry
func AppendUTXOEntry(b []byte, entry externalapi.UTXOEntry) []byte {
	b = AppendVarintField(b, utxoEntryAmountField, entry.Amount())
	b = AppendBytesField(b, utxoEntryAddressField, entry.Address()[:])
	return AppendVarintField(b, utxoEntryBookedAtIndexField, uint64(entry.BookedAtIndex()))
}

// DeserializeUTXOEntry decodes a UTXO entry encoded by SerializeUTXOEntry
func DeserializeUTXOEntry(data []byte) (externalapi.UTXOEntry, error) {
	var amount, bookedAtIndex uint64
	var address *externalapi.DomainAddress
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case utxoEntryAmountField:
			value, n, err := ConsumeVarint(fieldType, data)
			amount = value
			return n, err
		case utxoEntryAddressField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			address, err = externalapi.NewDomainAddressFromByteSlice(value)
			return n, err
		case utxoEntryBookedAtIndexField:
			value, n, err := ConsumeVarint(fieldType, data)
			bookedAtIndex = value
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, errors.New("UTXO entry is missing its address")
	}
	if bookedAtIndex > math.MaxUint32 {
		return nil, errors.Errorf("UTXO entry booking index %d is out of range", bookedAtIndex)
	}
	return utxo.NewUTXOEntry(amount, address, externalapi.MilestoneIndex(bookedAtIndex)), nil
}

const (
	utxoOutpointField protowire.Number = 1
	utxoEntryField    protowire.Number = 2
)

// SerializeUTXO returns the encoding of an outpoint along with its entry,
// as used by ledger commitments and snapshots
func SerializeUTXO(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) []byte {
	b := AppendBytesField(nil, utxoOutpointField, AppendOutpoint(nil, outpoint))
	return AppendBytesField(b, utxoEntryField, SerializeUTXOEntry(entry))
}

// DeserializeUTXO decodes an outpoint and entry encoded by SerializeUTXO
func DeserializeUTXO(data []byte) (*externalapi.DomainOutpoint, externalapi.UTXOEntry, error) {
	var outpoint *externalapi.DomainOutpoint
	var entry externalapi.UTXOEntry
	err := ForEachField(data, func(number protowire.Number, fieldType protowire.Type, data []byte) (int, error) {
		switch number {
		case utxoOutpointField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			outpoint, err = DeserializeOutpoint(value)
			return n, err
		case utxoEntryField:
			value, n, err := ConsumeBytes(fieldType, data)
			if err != nil {
				return 0, err
			}
			entry, err = DeserializeUTXOEntry(value)
			return n, err
		}
		return -1, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if outpoint == nil || entry == nil {
		return nil, nil, errors.New("UTXO is missing its outpoint or its entry")
	}
	return outpoint, entry, nil
}
