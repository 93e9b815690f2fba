package addressencoding

import (
	"testing"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func TestEncodeDecode(t *testing.T) {
	address := &externalapi.DomainAddress{0xde, 0xad, 0xbe, 0xef, 31: 0x01}

	encoded, err := Encode(address, "tgl")
	if err != nil {
		t.Fatalf("TestEncodeDecode: Encode unexpectedly failed: %s", err)
	}
	decoded, err := Decode(encoded, "tgl")
	if err != nil {
		t.Fatalf("TestEncodeDecode: Decode unexpectedly failed: %s", err)
	}
	if !decoded.Equal(address) {
		t.Fatalf("TestEncodeDecode: expected %s but got %s", address, decoded)
	}

	_, err = Decode(encoded, "tgltest")
	if err == nil {
		t.Fatalf("TestEncodeDecode: an address with a foreign prefix was accepted")
	}

	corrupted := []byte(encoded)
	last := len(corrupted) - 1
	if corrupted[last] == 'q' {
		corrupted[last] = 'p'
	} else {
		corrupted[last] = 'q'
	}
	_, err = Decode(string(corrupted), "tgl")
	if err == nil {
		t.Fatalf("TestEncodeDecode: an address with a bad checksum was accepted")
	}
}
