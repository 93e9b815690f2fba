package dagconfig

import (
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// The genesis addresses own the whole supply of a fresh ledger. Tests
// replace them with addresses of keys they control.
var (
	mainnetGenesisAddress = externalapi.DomainAddress{
		0x6a, 0x1f, 0x3c, 0x9e, 0x40, 0x52, 0xd7, 0x13,
		0x8b, 0x2e, 0xa5, 0x71, 0x0c, 0xf4, 0x96, 0x3d,
		0x58, 0xe0, 0x27, 0xbb, 0x14, 0x6f, 0xc2, 0x89,
		0x3a, 0x75, 0xd1, 0x0e, 0x9f, 0x46, 0xb8, 0x22,
	}

	testnetGenesisAddress = externalapi.DomainAddress{
		0x11, 0xc8, 0x5d, 0x02, 0xe7, 0x9a, 0x34, 0xf6,
		0x83, 0x4b, 0x1e, 0xd9, 0x60, 0x2c, 0xa7, 0x5f,
		0xbe, 0x07, 0x93, 0x48, 0xfa, 0x21, 0x6d, 0xc5,
		0x0b, 0x8e, 0x37, 0xa2, 0x54, 0xe9, 0x1c, 0x70,
	}

	devnetGenesisAddress = externalapi.DomainAddress{0xde, 0x7e}

	simnetGenesisAddress = externalapi.DomainAddress{0x51, 0x3e}
)

// GenesisBlockHash returns the id of the genesis block. It is never stored:
// a fresh tangle knows it only as a solid entry point.
func GenesisBlockHash() *externalapi.DomainHash {
	return externalapi.NewZeroHash()
}
