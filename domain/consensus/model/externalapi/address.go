package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainAddressSize is the size of an address
const DomainAddressSize = 32

// DomainAddress is the owner of an output: the hash of a public key.
// Human readable renderings live in utils/addressencoding.
type DomainAddress [DomainAddressSize]byte

// NewDomainAddressFromByteSlice constructs a DomainAddress out of a byte slice
func NewDomainAddressFromByteSlice(addressBytes []byte) (*DomainAddress, error) {
	if len(addressBytes) != DomainAddressSize {
		return nil, errors.Errorf("invalid address size. Want: %d, got: %d",
			DomainAddressSize, len(addressBytes))
	}
	var address DomainAddress
	copy(address[:], addressBytes)
	return &address, nil
}

func (address DomainAddress) String() string {
	return hex.EncodeToString(address[:])
}

// Equal returns whether address equals to other
func (address *DomainAddress) Equal(other *DomainAddress) bool {
	if address == nil || other == nil {
		return address == other
	}
	return *address == *other
}
