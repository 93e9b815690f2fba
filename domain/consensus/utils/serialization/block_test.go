package serialization

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func TestBlockSerialization(t *testing.T) {
	parentA := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{1})
	parentB := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{2})
	root := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{3})
	txID := externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{4})

	tests := []struct {
		name  string
		block *externalapi.DomainBlock
	}{
		{
			name:  "no payload",
			block: &externalapi.DomainBlock{Parents: []*externalapi.DomainHash{parentA}, Nonce: 7},
		},
		{
			name: "transaction",
			block: &externalapi.DomainBlock{
				Parents: []*externalapi.DomainHash{parentA, parentB},
				Payload: &externalapi.DomainTransaction{
					Inputs: []*externalapi.DomainTransactionInput{{
						PreviousOutpoint: *externalapi.NewDomainOutpoint(txID, 300),
						Signature:        &externalapi.DomainSignature{PublicKey: []byte{1, 2}, Signature: []byte{3}},
					}},
					Outputs: []*externalapi.DomainTransactionOutput{
						{Amount: 1000, Address: externalapi.DomainAddress{9}},
					},
				},
			},
		},
		{
			name: "milestone without roots",
			block: &externalapi.DomainBlock{
				Parents: []*externalapi.DomainHash{parentB},
				Payload: &externalapi.DomainMilestone{Index: 42, Timestamp: -5},
			},
		},
		{
			name: "milestone with roots",
			block: &externalapi.DomainBlock{
				Parents: []*externalapi.DomainHash{parentA},
				Payload: &externalapi.DomainMilestone{Index: 43, Timestamp: 1600000000000,
					InclusionMerkleRoot: root, AppliedMerkleRoot: root},
			},
		},
		{
			name: "tagged data",
			block: &externalapi.DomainBlock{
				Parents: []*externalapi.DomainHash{parentA},
				Payload: &externalapi.DomainTaggedData{Tag: []byte("tag"), Data: []byte("data")},
			},
		},
	}

	for _, test := range tests {
		serialized, err := SerializeBlock(test.block)
		if err != nil {
			t.Fatalf("%s: SerializeBlock unexpectedly failed: %s", test.name, err)
		}
		deserialized, err := DeserializeBlock(serialized)
		if err != nil {
			t.Fatalf("%s: DeserializeBlock unexpectedly failed: %s", test.name, err)
		}
		if !deserialized.Equal(test.block) {
			t.Fatalf("%s: expected %s but got %s", test.name, spew.Sdump(test.block), spew.Sdump(deserialized))
		}
		reserialized, err := SerializeBlock(deserialized)
		if err != nil {
			t.Fatalf("%s: SerializeBlock unexpectedly failed: %s", test.name, err)
		}
		if string(reserialized) != string(serialized) {
			t.Fatalf("%s: encoding is not canonical", test.name)
		}
	}
}

func TestDeserializeBlockMalformed(t *testing.T) {
	block := &externalapi.DomainBlock{
		Parents: []*externalapi.DomainHash{externalapi.NewZeroHash()},
		Payload: &externalapi.DomainMilestone{Index: 1},
	}
	serialized, err := SerializeBlock(block)
	if err != nil {
		t.Fatalf("TestDeserializeBlockMalformed: SerializeBlock unexpectedly failed: %s", err)
	}

	_, err = DeserializeBlock(serialized[:len(serialized)-1])
	if err == nil {
		t.Fatalf("TestDeserializeBlockMalformed: a truncated block was decoded")
	}

	twoPayloads := append(append([]byte{}, serialized...), AppendBytesField(nil, blockTaggedDataField, nil)...)
	_, err = DeserializeBlock(twoPayloads)
	if err == nil {
		t.Fatalf("TestDeserializeBlockMalformed: a block with two payloads was decoded")
	}

	shortParent := AppendBytesField(nil, blockParentField, []byte{1, 2, 3})
	_, err = DeserializeBlock(shortParent)
	if err == nil {
		t.Fatalf("TestDeserializeBlockMalformed: a block with a short parent was decoded")
	}
}

func TestTransactionEssenceExcludesSignatures(t *testing.T) {
	txID := externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{4})
	tx := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(txID, 0),
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{Amount: 1, Address: externalapi.DomainAddress{1}}},
	}
	unsignedEssence := SerializeTransactionEssence(tx)
	tx.Inputs[0].Signature = &externalapi.DomainSignature{PublicKey: []byte{1}, Signature: []byte{2}}
	if string(SerializeTransactionEssence(tx)) != string(unsignedEssence) {
		t.Fatalf("TestTransactionEssenceExcludesSignatures: signing the transaction changed its essence")
	}
	if string(SerializeTransaction(tx)) == string(unsignedEssence) {
		t.Fatalf("TestTransactionEssenceExcludesSignatures: the full encoding ignores signatures")
	}
}

func TestUTXOSerialization(t *testing.T) {
	outpoint := externalapi.NewDomainOutpoint(
		externalapi.NewDomainTransactionIDFromByteArray(&[externalapi.DomainHashSize]byte{5}), 65535)
	entryBytes := SerializeUTXOEntry(testEntry{amount: 50, address: externalapi.DomainAddress{7}, bookedAt: 3})
	entry, err := DeserializeUTXOEntry(entryBytes)
	if err != nil {
		t.Fatalf("TestUTXOSerialization: DeserializeUTXOEntry unexpectedly failed: %s", err)
	}
	if entry.Amount() != 50 || entry.BookedAtIndex() != 3 || *entry.Address() != (externalapi.DomainAddress{7}) {
		t.Fatalf("TestUTXOSerialization: unexpected entry %s", spew.Sdump(entry))
	}

	decodedOutpoint, decodedEntry, err := DeserializeUTXO(SerializeUTXO(outpoint, entry))
	if err != nil {
		t.Fatalf("TestUTXOSerialization: DeserializeUTXO unexpectedly failed: %s", err)
	}
	if !decodedOutpoint.Equal(outpoint) || !decodedEntry.Equal(entry) {
		t.Fatalf("TestUTXOSerialization: UTXO did not survive encoding")
	}

	keyOutpoint, err := OutpointFromKey(outpoint.Bytes())
	if err != nil {
		t.Fatalf("TestUTXOSerialization: OutpointFromKey unexpectedly failed: %s", err)
	}
	if !keyOutpoint.Equal(outpoint) {
		t.Fatalf("TestUTXOSerialization: expected %s but got %s", outpoint, keyOutpoint)
	}
}

type testEntry struct {
	amount   uint64
	address  externalapi.DomainAddress
	bookedAt externalapi.MilestoneIndex
}

func (e testEntry) Amount() uint64                            { return e.amount }
func (e testEntry) Address() *externalapi.DomainAddress       { return &e.address }
func (e testEntry) BookedAtIndex() externalapi.MilestoneIndex { return e.bookedAt }
func (e testEntry) Equal(other externalapi.UTXOEntry) bool    { return false }
