package addressencoding

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// Encode renders address as a bech32 string with the given human
// readable prefix
func Encode(address *externalapi.DomainAddress, prefix string) (string, error) {
	converted, err := bech32.ConvertBits(address[:], 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed converting address to 5 bit groups")
	}
	return bech32.Encode(prefix, converted)
}

// Decode parses a bech32 address and verifies its prefix
func Decode(encodedAddress string, expectedPrefix string) (*externalapi.DomainAddress, error) {
	prefix, data, err := bech32.Decode(encodedAddress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed decoding address %s", encodedAddress)
	}
	if prefix != expectedPrefix {
		return nil, errors.Errorf("address %s has prefix %s while %s was expected",
			encodedAddress, prefix, expectedPrefix)
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed converting address %s to bytes", encodedAddress)
	}
	return externalapi.NewDomainAddressFromByteSlice(converted)
}
